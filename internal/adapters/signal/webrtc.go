package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Signaling payloads (offers, answers, ICE candidates) are opaque here: the
// server addresses them, it never parses SDP or candidates.

type signalEnvelope struct {
	Type    string          `json:"type"`
	Room    string          `json:"room"`
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload"`
}

func (ctl *Controller) handleConnInit(conn *wsConn, data []byte) {
	var p signalEnvelope
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad conn-init payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	err := ctl.Orch.InitiateSignal(conn.id, domain.RoomID(p.Room), core.ConnID(p.To), p.Payload)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(conn.id)).Str("to", p.To).Msg("conn-init rejected")
		ctl.sendError(conn, errorCode(err))
	}
}

func (ctl *Controller) handleConnSignal(conn *wsConn, data []byte) {
	var p signalEnvelope
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad conn-signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	err := ctl.Orch.RelaySignal(conn.id, domain.RoomID(p.Room), core.ConnID(p.To), p.Payload)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(conn.id)).Str("to", p.To).Msg("conn-signal rejected")
		ctl.sendError(conn, errorCode(err))
	}
}
