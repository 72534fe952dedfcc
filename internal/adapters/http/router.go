package http

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/adapters/signal"
	"github.com/Professor-FernandoLopes/discordBackend/internal/config"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware gives every browser a stable token cookie. The
// token doubles as the user identity, so a reconnect from the same browser
// lands on the same directory entry.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// CookieAuthenticator turns the client token into an identity. It stands in
// for a real credential check: swap it for a token-verifying implementation
// without touching the signal adapter.
type CookieAuthenticator struct{}

func (CookieAuthenticator) Authenticate(c *gin.Context) (*domain.User, error) {
	token := c.GetString("client_token")
	if token == "" {
		return nil, errors.New("missing client token")
	}
	username := c.Query("name")
	if username == "" {
		username = "guest"
	}
	return domain.NewUser(domain.UserID(token), username)
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RendezvousSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("token", c.GetString("client_token")).Msg("ws endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
