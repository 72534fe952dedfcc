// Package signal is the WebSocket adapter: it upgrades authenticated HTTP
// requests, owns the per-connection read/write pumps and translates wire
// envelopes into orchestrator calls.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/config"
	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Authenticator is the external credential gate. It runs before the
// WebSocket upgrade; a failure rejects the connection with no state mutated.
type Authenticator interface {
	Authenticate(c *gin.Context) (*domain.User, error)
}

type Controller struct {
	Orch     *app.Orchestrator
	Auth     Authenticator
	cfg      *config.Config
	limiter  *RateLimiter
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, orch *app.Orchestrator, auth Authenticator) *Controller {
	return &Controller{
		Orch:    orch,
		Auth:    auth,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
	}
}

type wsConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.Mutex
	closed bool
}

func (c *wsConn) ID() core.ConnID { return c.id }

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal runs the connection lifecycle: authenticate, upgrade,
// register, pump. The read pump is the only caller of OnDisconnect for this
// connection, so teardown runs exactly once per transport failure.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	user, err := ctl.Auth.Authenticate(c)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("authentication rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &wsConn{
		id:   core.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("user", string(user.ID)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.OnConnect(user, conn)
	ctl.sendWhoAmI(conn, user)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, user, conn)
}
