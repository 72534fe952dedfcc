// Package app orchestrates the rendezvous flows: connection lifecycle,
// presence, direct messaging, room membership and signaling relay. It owns
// no transport; everything outbound goes through core.Conn.TrySend.
package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Inbound event types. The dispatch switch over these is the closed set of
// things a client may ask for; anything else is rejected.
const (
	EventDirectMessage = "direct-message"
	EventDirectHistory = "direct-chat-history"
	EventRoomCreate    = "room-create"
	EventRoomJoin      = "room-join"
	EventRoomLeave     = "room-leave"
	EventConnInit      = "conn-init"
	EventConnSignal    = "conn-signal"
	EventPing          = "ping"
	EventWhoAmI        = "whoami"
)

// Outbound push types.
const (
	PushOnlineUsers     = "online-users"
	PushRoomCreated     = "room-created"
	PushParticipantIn   = "participant-joined"
	PushParticipantOut  = "participant-left"
	PushDirectMessage   = "direct-message"
	PushDirectHistory   = "direct-chat-history"
	PushConnInit        = "conn-init"
	PushConnSignal      = "conn-signal"
	PushError           = "error"
	PushPong            = "pong"
	PushWhoAmI          = "whoami"
)

type onlineUsersPush struct {
	Type        string             `json:"type"`
	OnlineUsers []core.PresenceDTO `json:"online_users"`
}

type participantJoinedPush struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
	Conn core.ConnID   `json:"conn"`
	User domain.User   `json:"user"`
}

type participantLeftPush struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
	Conn core.ConnID   `json:"conn"`
}

type directMessagePush struct {
	Type     string          `json:"type"`
	Sender   domain.UserID   `json:"sender"`
	Username string          `json:"username"`
	Payload  json.RawMessage `json:"payload"`
	SentAt   time.Time       `json:"sent_at"`
}

type directHistoryPush struct {
	Type     string                 `json:"type"`
	Peer     domain.UserID          `json:"peer"`
	Messages []domain.DirectMessage `json:"messages"`
}

type signalPush struct {
	Type    string          `json:"type"`
	Room    domain.RoomID   `json:"room"`
	From    core.ConnID     `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// push encodes v once and hands it to the connection without blocking.
// Delivery failure never propagates to the caller; policy decides whether
// a congested peer gets dropped.
func (o *Orchestrator) push(conn core.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Msg("push marshal")
		return
	}
	o.send(conn, b)
}

func (o *Orchestrator) send(conn core.Conn, frame core.Frame) {
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "app").Str("conn", string(conn.ID())).Msg("push dropped")
		if o.Policy != nil && o.Policy.OnBackpressure(conn.ID()) == KickConn {
			conn.Close()
		}
	}
}
