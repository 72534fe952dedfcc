package signal

import (
	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

func (ctl *Controller) handlePing(conn *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: app.PushPong,
	}
	ctl.sendJSON(conn, resp)
}

// sendWhoAmI tells the client its own connection id; peers address
// signaling to that id, so the client needs it before it can be called.
func (ctl *Controller) sendWhoAmI(conn *wsConn, user *domain.User) {
	resp := struct {
		Type string      `json:"type"`
		Conn core.ConnID `json:"conn"`
		User domain.User `json:"user"`
	}{
		Type: app.PushWhoAmI,
		Conn: conn.id,
		User: *user,
	}
	ctl.sendJSON(conn, resp)
}
