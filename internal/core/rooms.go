package core

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// RoomTable is the process-wide room registry. Mutating operations run
// under the table lock so a concurrent leave can never race a join into a
// room that is being deleted; a room with zero members is deleted in the
// same critical section that emptied it.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*Room)}
}

// Create mints a fresh room with the creator as sole member.
func (t *RoomTable) Create(creator Conn) *Room {
	t.mu.Lock()
	defer t.mu.Unlock()
	room := NewRoom(&domain.Room{ID: domain.RoomID(uuid.NewString())})
	room.Add(creator)
	t.rooms[room.Meta().ID] = room
	log.Info().Str("module", "core.rooms").Str("room", string(room.Meta().ID)).Str("conn", string(creator.ID())).Msg("room created")
	return room
}

func (t *RoomTable) Get(id domain.RoomID) (*Room, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[id]
	return room, ok
}

func (t *RoomTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

// Join admits conn into the room. The second join of the same connection is
// success with added=false.
func (t *RoomTable) Join(id domain.RoomID, conn Conn) (room *Room, added bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	return room, room.Add(conn), nil
}

// Leave removes conn from the room, deleting the room when it empties.
// The remaining members are returned for departure notifications; removed
// reports whether the connection was actually a member.
func (t *RoomTable) Leave(id domain.RoomID, cid ConnID) (remaining []Conn, removed bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	removed, empty := room.Remove(cid)
	if empty {
		delete(t.rooms, id)
		log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room deleted")
		return nil, removed, nil
	}
	return room.Members(), removed, nil
}

// Departure records who is left behind in one room after a disconnect.
type Departure struct {
	RoomID    domain.RoomID
	Remaining []Conn
}

// RemoveConn purges the connection from every room it is a member of,
// deleting rooms it leaves empty. Safe to call for an unknown connection.
func (t *RoomTable) RemoveConn(cid ConnID) []Departure {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Departure
	for id, room := range t.rooms {
		removed, empty := room.Remove(cid)
		if !removed {
			continue
		}
		if empty {
			delete(t.rooms, id)
			log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room deleted")
			continue
		}
		out = append(out, Departure{RoomID: id, Remaining: room.Members()})
	}
	return out
}
