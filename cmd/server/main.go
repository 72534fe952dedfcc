package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/adapters/history"
	router "github.com/Professor-FernandoLopes/discordBackend/internal/adapters/http"
	wsignal "github.com/Professor-FernandoLopes/discordBackend/internal/adapters/signal"
	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/config"
	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var store app.Store = app.NoopStore{}
	if cfg.HistoryPath != "" {
		repo, err := history.Open(cfg.HistoryPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open history store")
		}
		defer repo.Close()
		store = repo
	}

	orch := app.NewOrchestrator(core.NewDirectory(), core.NewRoomTable(), store)
	go orch.RunHeartbeat(ctx, cfg.Heartbeat)

	ctl := wsignal.NewController(cfg, orch, router.CookieAuthenticator{})
	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("rendezvous server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
