package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

// Join records the participant, adds the connection to its room and pushes
// the new roster. A repeated join refreshes the metadata and is broadcast
// exactly like a first one.
func (o *Orchestrator) Join(id core.ConnectionID, p domain.Participant) {
	o.mu.Lock()
	defer o.mu.Unlock()

	first, ok := o.Registry.RecordJoin(id, p)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Msg("join for unknown connection")
		return
	}
	conn, _ := o.Registry.Get(id)
	o.Rooms.Join(conn.Room, id)
	o.Metrics.Rooms.Set(float64(o.Rooms.Len()))

	log.Info().
		Str("module", "orch").
		Str("conn", string(id)).
		Str("room", string(conn.Room)).
		Str("user", string(p.ID)).
		Bool("host", p.IsHost).
		Bool("rejoin", !first).
		Msg("participant joined")

	members := o.Registry.ListByRoom(conn.Room)
	o.broadcastRoster(conn.Room, members)
	o.notifyJoined(id, p, members)
}

// OnDisconnect is the single exit path for a connection, whatever closed it.
// Calling it twice is harmless.
func (o *Orchestrator) OnDisconnect(id core.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.Registry.Get(id)
	if !ok {
		return
	}

	roomExists := false
	if conn.Joined() {
		_, roomExists = o.Rooms.Leave(conn.Room, id)
	}
	o.Registry.Remove(id)
	o.Metrics.Connections.Dec()
	o.Metrics.Rooms.Set(float64(o.Rooms.Len()))

	ev := log.Info().Str("module", "orch").Str("conn", string(id)).Str("room", string(conn.Room))
	if conn.Joined() {
		ev = ev.Str("user", string(conn.Participant.ID))
	}
	ev.Bool("room_alive", roomExists).Msg("connection closed")

	if !conn.Joined() || !roomExists {
		return
	}
	members := o.Registry.ListByRoom(conn.Room)
	o.notifyLeft(*conn.Participant, members)
	o.broadcastRoster(conn.Room, members)
}
