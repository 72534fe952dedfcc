package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, user *domain.User, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		cancel()
		ctl.Orch.OnDisconnect(c.id)
		ctl.limiter.Forget(c.id)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(user, c, data)
		}
	}
}

// handleEvent is the per-connection dispatch table. Events run sequentially
// on the connection's read pump, which is what gives each sender→target
// signaling pair its in-order delivery.
func (ctl *Controller) handleEvent(user *domain.User, c *wsConn, data []byte) {
	if !ctl.limiter.Allow(c.id) {
		ctl.sendError(c, "rate_limited")
		return
	}

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case app.EventDirectMessage:
		ctl.handleDirectMessage(user, c, data)
	case app.EventDirectHistory:
		ctl.handleDirectHistory(user, c, data)
	case app.EventRoomCreate:
		ctl.handleRoomCreate(c)
	case app.EventRoomJoin:
		ctl.handleRoomJoin(c, data)
	case app.EventRoomLeave:
		ctl.handleRoomLeave(c, data)
	case app.EventConnInit:
		ctl.handleConnInit(c, data)
	case app.EventConnSignal:
		ctl.handleConnSignal(c, data)
	case app.EventPing:
		ctl.handlePing(c)
	case app.EventWhoAmI:
		ctl.sendWhoAmI(c, user)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(c, "unknown_event")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsConn, code string) {
	ctl.sendJSON(c, map[string]any{
		"type":  app.PushError,
		"error": code,
	})
}
