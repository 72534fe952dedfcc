package app

import (
	"encoding/json"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Signaling is point-to-point even inside a multi-party room: every pairwise
// peer link is negotiated independently, and the server's only job is
// addressing. Payloads pass through as raw bytes, never interpreted.

// InitiateSignal forwards an offer from sender to exactly one target in the
// room. Both ends must currently be members.
func (o *Orchestrator) InitiateSignal(sender core.ConnID, roomID domain.RoomID, target core.ConnID, offer json.RawMessage) error {
	return o.relayTo(PushConnInit, sender, roomID, target, offer)
}

// RelaySignal forwards any further negotiation payload (answer, ICE
// candidate, renegotiation) under the same membership rules.
func (o *Orchestrator) RelaySignal(sender core.ConnID, roomID domain.RoomID, target core.ConnID, signal json.RawMessage) error {
	return o.relayTo(PushConnSignal, sender, roomID, target, signal)
}

func (o *Orchestrator) relayTo(pushType string, sender core.ConnID, roomID domain.RoomID, target core.ConnID, payload json.RawMessage) error {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return core.ErrRoomNotFound
	}
	if !room.Has(sender) {
		return core.ErrNotAMember
	}
	conn, ok := room.Member(target)
	if !ok {
		return core.ErrNotAMember
	}
	o.push(conn, signalPush{Type: pushType, Room: roomID, From: sender, Payload: payload})
	return nil
}
