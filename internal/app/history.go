package app

import (
	"context"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Store is the external chat-history collaborator. The relay core works the
// same whether messages are recorded or not.
type Store interface {
	Record(ctx context.Context, msg domain.DirectMessage) error
	// Conversation returns the messages exchanged between a and b, oldest
	// first, capped at limit.
	Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]domain.DirectMessage, error)
}

// NoopStore keeps nothing. The default when no history backend is configured.
type NoopStore struct{}

func (NoopStore) Record(context.Context, domain.DirectMessage) error { return nil }

func (NoopStore) Conversation(context.Context, domain.UserID, domain.UserID, int) ([]domain.DirectMessage, error) {
	return nil, nil
}
