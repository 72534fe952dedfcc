package app

import "github.com/Professor-FernandoLopes/discordBackend/internal/core"

type BackpressureAction int

const (
	// DropPush discards the single undeliverable push; the presence
	// heartbeat repairs whatever state push the peer missed.
	DropPush BackpressureAction = iota
	// KickConn closes the congested connection, which funnels it through
	// the normal disconnect teardown.
	KickConn
)

type Policy interface {
	OnBackpressure(id core.ConnID) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(core.ConnID) BackpressureAction {
	return DropPush
}
