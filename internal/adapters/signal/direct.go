package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

func (ctl *Controller) handleDirectMessage(user *domain.User, conn *wsConn, data []byte) {
	type directPayload struct {
		Type      string          `json:"type"`
		Recipient string          `json:"recipient"`
		Payload   json.RawMessage `json:"payload"`
	}
	var p directPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad direct-message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Recipient == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Orch.RelayDirect(user, domain.UserID(p.Recipient), p.Payload)
}

func (ctl *Controller) handleDirectHistory(user *domain.User, conn *wsConn, data []byte) {
	type historyPayload struct {
		Type string `json:"type"`
		Peer string `json:"peer"`
	}
	var p historyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad history payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	if err := ctl.Orch.DirectHistory(conn, user, domain.UserID(p.Peer)); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("user", string(user.ID)).Msg("history fetch")
		ctl.sendError(conn, "internal_error")
	}
}
