package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// BroadcastPresence sends the current online-user list to every connection.
// The list and the connection set are snapshotted first, so no send runs
// under a registry lock and a slow peer cannot stall anyone else.
func (o *Orchestrator) BroadcastPresence() {
	online := o.Directory.Online()
	conns := o.Directory.Conns()

	b, err := json.Marshal(onlineUsersPush{Type: PushOnlineUsers, OnlineUsers: online})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("presence marshal")
		return
	}
	for _, conn := range conns {
		o.send(conn, b)
	}
	log.Debug().Str("module", "app.presence").Int("online", len(online)).Msg("presence broadcast")
}

// RunHeartbeat re-broadcasts presence on a fixed interval until ctx is done.
// The ticks are a backstop for clients that missed a discrete update, e.g.
// one that connected mid-broadcast.
func (o *Orchestrator) RunHeartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.presence").Msg("heartbeat stopped")
			return
		case <-ticker.C:
			o.BroadcastPresence()
		}
	}
}
