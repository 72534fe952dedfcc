package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// historyLimit caps how many messages a single history request returns.
const historyLimit = 100

// RelayDirect forwards a direct message to the recipient's connection. An
// offline recipient is a silent drop: no queueing, no error back to the
// sender. The message is still handed to the history store either way.
func (o *Orchestrator) RelayDirect(sender *domain.User, recipient domain.UserID, payload json.RawMessage) {
	msg := domain.DirectMessage{
		Sender:    sender.ID,
		Recipient: recipient,
		Payload:   payload,
		SentAt:    time.Now().UTC(),
	}
	if err := o.History.Record(context.Background(), msg); err != nil {
		log.Error().Err(err).Str("module", "app.direct").Msg("history record")
	}

	conn, ok := o.Directory.Lookup(recipient)
	if !ok {
		log.Debug().Str("module", "app.direct").Str("recipient", string(recipient)).Msg("recipient offline, dropping")
		return
	}
	o.push(conn, directMessagePush{
		Type:     PushDirectMessage,
		Sender:   sender.ID,
		Username: sender.Username,
		Payload:  payload,
		SentAt:   msg.SentAt,
	})
}

// DirectHistory answers a direct-chat-history request from the history
// collaborator and pushes the conversation back to the requester.
func (o *Orchestrator) DirectHistory(requester core.Conn, user *domain.User, peer domain.UserID) error {
	msgs, err := o.History.Conversation(context.Background(), user.ID, peer, historyLimit)
	if err != nil {
		return err
	}
	o.push(requester, directHistoryPush{Type: PushDirectHistory, Peer: peer, Messages: msgs})
	return nil
}
