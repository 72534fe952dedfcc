// Package history provides the sqlite-backed implementation of the chat
// history collaborator.
package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening history db: %w", err)
	}
	schema := `
		CREATE TABLE IF NOT EXISTS direct_messages (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			sender    TEXT NOT NULL,
			recipient TEXT NOT NULL,
			payload   BLOB NOT NULL,
			sent_at   TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_direct_messages_pair
			ON direct_messages (sender, recipient, sent_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating history schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Record(ctx context.Context, msg domain.DirectMessage) error {
	query := `INSERT INTO direct_messages (sender, recipient, payload, sent_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, string(msg.Sender), string(msg.Recipient), []byte(msg.Payload), msg.SentAt); err != nil {
		return fmt.Errorf("error recording message: %w", err)
	}
	return nil
}

func (r *Repository) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]domain.DirectMessage, error) {
	query := `
		SELECT sender, recipient, payload, sent_at FROM direct_messages
		WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		ORDER BY sent_at ASC, id ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(a), string(b), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying conversation: %w", err)
	}
	defer rows.Close()

	var out []domain.DirectMessage
	for rows.Next() {
		var msg domain.DirectMessage
		var sender, recipient string
		var payload []byte
		if err := rows.Scan(&sender, &recipient, &payload, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		msg.Sender = domain.UserID(sender)
		msg.Recipient = domain.UserID(recipient)
		msg.Payload = payload
		out = append(out, msg)
	}
	return out, rows.Err()
}
