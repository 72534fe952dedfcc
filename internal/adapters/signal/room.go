package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

func (ctl *Controller) handleRoomCreate(conn *wsConn) {
	roomID := ctl.Orch.CreateRoom(conn)
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("room", string(roomID)).Msg("room created")

	resp := struct {
		Type string        `json:"type"`
		Room domain.RoomID `json:"room"`
	}{
		Type: app.PushRoomCreated,
		Room: roomID,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *Controller) handleRoomJoin(conn *wsConn, data []byte) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("room", p.Room).Msg("join")
	if err := ctl.Orch.JoinRoom(conn, domain.RoomID(p.Room)); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

func (ctl *Controller) handleRoomLeave(conn *wsConn, data []byte) {
	type leavePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("room", p.Room).Msg("leave")
	if err := ctl.Orch.LeaveRoom(conn.id, domain.RoomID(p.Room)); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, core.ErrNotAMember):
		return "not_a_member"
	default:
		return "internal_error"
	}
}
