package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Room is a threadsafe in-memory membership set. Members are kept in join
// order. It never closes adapter-owned resources.
type Room struct {
	meta *domain.Room

	mu      sync.RWMutex
	order   []ConnID
	members map[ConnID]Conn
}

func NewRoom(meta *domain.Room) *Room {
	return &Room{
		meta:    meta,
		members: make(map[ConnID]Conn),
	}
}

func (r *Room) Meta() *domain.Room { return r.meta }

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) Has(id ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

func (r *Room) Member(id ConnID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.members[id]
	return c, ok
}

// Add admits a member. Joining twice is a no-op; the second call reports
// false and leaves the set unchanged.
func (r *Room) Add(conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[conn.ID()]; ok {
		return false
	}
	r.members[conn.ID()] = conn
	r.order = append(r.order, conn.ID())
	log.Info().Str("module", "core.room").Str("room", string(r.meta.ID)).Str("conn", string(conn.ID())).Msg("member added")
	return true
}

// Remove drops a member and reports whether it was present and whether the
// room is now empty.
func (r *Room) Remove(id ConnID) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false, len(r.members) == 0
	}
	delete(r.members, id)
	for i, m := range r.order {
		if m == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "core.room").Str("room", string(r.meta.ID)).Str("conn", string(id)).Msg("member removed")
	return true, len(r.members) == 0
}

// Members snapshots the membership in join order.
func (r *Room) Members() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conn, 0, len(r.members))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out
}

// Others snapshots every member except the given one.
func (r *Room) Others(except ConnID) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conn, 0, len(r.members))
	for _, id := range r.order {
		if id != except {
			out = append(out, r.members[id])
		}
	}
	return out
}
