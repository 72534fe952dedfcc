// Package core holds the shared in-memory state of the rendezvous server:
// the online-user directory and the room table. It never touches transport
// resources beyond the Conn interface.
package core

import (
	"errors"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Frame is a raw outbound payload, already encoded.
type Frame []byte

// ConnID identifies one live connection. Assigned by the transport layer,
// unique for the process lifetime.
type ConnID string

// Conn abstracts a live bidirectional session.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	ID() ConnID
	// TrySend enqueues a frame without blocking. It fails instead of
	// stalling when the peer is slow.
	TrySend(Frame) error
	Close()
}

// PresenceDTO is a read-only view for pushes (no transport fields).
type PresenceDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
}

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotAMember   = errors.New("not a member of room")
)
