package app

import (
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// Orchestrator wires the registries together and is the single writer for
// lifecycle state transitions. Adapters call it with already-decoded events.
type Orchestrator struct {
	Directory *core.Directory
	Rooms     *core.RoomTable
	History   Store
	Policy    Policy
}

func NewOrchestrator(dir *core.Directory, rooms *core.RoomTable, history Store) *Orchestrator {
	if history == nil {
		history = NoopStore{}
	}
	return &Orchestrator{
		Directory: dir,
		Rooms:     rooms,
		History:   history,
		Policy:    SimplePolicy{},
	}
}

// OnConnect registers an authenticated connection and announces the new
// presence. A previous connection of the same identity is displaced and
// closed (one identity, one connection).
func (o *Orchestrator) OnConnect(user *domain.User, conn core.Conn) {
	if displaced := o.Directory.Register(user, conn); displaced != nil {
		log.Info().Str("module", "app").Str("user", string(user.ID)).Str("conn", string(displaced.ID())).Msg("displacing previous connection")
		displaced.Close()
	}
	o.BroadcastPresence()
}

// OnDisconnect tears down everything tied to the connection: every room
// membership (deleting rooms left empty, notifying rooms left occupied) and
// the directory entry. It is the only writer that removes this state, and
// calling it twice is harmless.
func (o *Orchestrator) OnDisconnect(id core.ConnID) {
	for _, dep := range o.Rooms.RemoveConn(id) {
		o.notifyLeft(dep.RoomID, id, dep.Remaining)
	}
	if user, ok := o.Directory.Unregister(id); ok {
		log.Info().Str("module", "app").Str("user", string(user.ID)).Str("conn", string(id)).Msg("disconnected")
		o.BroadcastPresence()
	}
}

func (o *Orchestrator) notifyLeft(room domain.RoomID, id core.ConnID, remaining []core.Conn) {
	push := participantLeftPush{Type: PushParticipantOut, Room: room, Conn: id}
	for _, member := range remaining {
		o.push(member, push)
	}
}
