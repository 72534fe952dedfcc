package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

type dirEntry struct {
	user *domain.User
	conn Conn
}

// Directory is the process-wide online-user registry. One identity maps to
// at most one live connection; Register is last-writer-wins on reconnect.
// The conn index makes disconnect cleanup O(1).
type Directory struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]*dirEntry
	byConn map[ConnID]domain.UserID
}

func NewDirectory() *Directory {
	return &Directory{
		byUser: make(map[domain.UserID]*dirEntry),
		byConn: make(map[ConnID]domain.UserID),
	}
}

// Register maps user to conn, displacing any previous connection held by the
// same identity. The displaced Conn is returned so the caller can close it;
// nil when the identity was offline.
func (d *Directory) Register(user *domain.User, conn Conn) Conn {
	d.mu.Lock()
	defer d.mu.Unlock()

	var displaced Conn
	if prev, ok := d.byUser[user.ID]; ok && prev.conn.ID() != conn.ID() {
		displaced = prev.conn
		delete(d.byConn, prev.conn.ID())
	}
	d.byUser[user.ID] = &dirEntry{user: user, conn: conn}
	d.byConn[conn.ID()] = user.ID
	log.Info().Str("module", "core.directory").Str("user", string(user.ID)).Str("conn", string(conn.ID())).Msg("registered")
	return displaced
}

// Unregister removes the entry owned by the given connection. It is a no-op
// when the connection is unknown or the identity has already been taken over
// by a newer connection.
func (d *Directory) Unregister(id ConnID) (*domain.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	uid, ok := d.byConn[id]
	if !ok {
		return nil, false
	}
	delete(d.byConn, id)
	entry, ok := d.byUser[uid]
	if !ok || entry.conn.ID() != id {
		return nil, false
	}
	delete(d.byUser, uid)
	log.Info().Str("module", "core.directory").Str("user", string(uid)).Str("conn", string(id)).Msg("unregistered")
	return entry.user, true
}

func (d *Directory) Lookup(uid domain.UserID) (Conn, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if entry, ok := d.byUser[uid]; ok {
		return entry.conn, true
	}
	return nil, false
}

// IdentityOf resolves a connection back to its authenticated user.
func (d *Directory) IdentityOf(id ConnID) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	uid, ok := d.byConn[id]
	if !ok {
		return nil, false
	}
	entry, ok := d.byUser[uid]
	if !ok {
		return nil, false
	}
	return entry.user, true
}

// Online returns the current identity list, sorted by id for stable output.
func (d *Directory) Online() []PresenceDTO {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]PresenceDTO, 0, len(d.byUser))
	for _, e := range d.byUser {
		out = append(out, PresenceDTO{ID: e.user.ID, Username: e.user.Username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Conns snapshots every live connection. Callers iterate the copy so sends
// never run under the directory lock.
func (d *Directory) Conns() []Conn {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Conn, 0, len(d.byUser))
	for _, e := range d.byUser {
		out = append(out, e.conn)
	}
	return out
}
