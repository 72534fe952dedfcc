package app

import (
	"github.com/rs/zerolog/log"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

// CreateRoom makes a fresh room with the creator as sole member and returns
// its id.
func (o *Orchestrator) CreateRoom(creator core.Conn) domain.RoomID {
	room := o.Rooms.Create(creator)
	return room.Meta().ID
}

// JoinRoom admits the connection into the room and tells the members that
// were already there about the newcomer, so each can initiate signaling
// toward it. Joining a room twice is success and re-notifies nobody.
func (o *Orchestrator) JoinRoom(conn core.Conn, roomID domain.RoomID) error {
	room, added, err := o.Rooms.Join(roomID, conn)
	if err != nil {
		return err
	}
	if !added {
		log.Debug().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(conn.ID())).Msg("duplicate join")
		return nil
	}

	user, ok := o.Directory.IdentityOf(conn.ID())
	if !ok {
		// Disconnect raced the join; teardown will purge the membership.
		return nil
	}
	push := participantJoinedPush{Type: PushParticipantIn, Room: roomID, Conn: conn.ID(), User: *user}
	for _, member := range room.Others(conn.ID()) {
		o.push(member, push)
	}
	return nil
}

// LeaveRoom removes the connection from the room. The room disappears with
// its last member; otherwise the remaining members are told about the
// departure so they can tear down the corresponding peer link.
func (o *Orchestrator) LeaveRoom(id core.ConnID, roomID domain.RoomID) error {
	remaining, removed, err := o.Rooms.Leave(roomID, id)
	if err != nil {
		return err
	}
	if removed {
		o.notifyLeft(roomID, id, remaining)
	}
	return nil
}
