package app

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

var (
	ErrNoRoom        = errors.New("connection has no room")
	ErrRoomIDTooLong = errors.New("room id too long")
)

// Connection is a copy of one registry entry. Participant is nil until the
// first join frame.
type Connection struct {
	ID          core.ConnectionID
	Room        domain.RoomID
	Participant *domain.Participant
	Signal      core.SignalConnection

	joinSeq uint64
}

func (c Connection) Joined() bool { return c.Participant != nil }

type connEntry struct {
	room        domain.RoomID
	participant *domain.Participant
	signal      core.SignalConnection
	cancel      context.CancelFunc
	joinSeq     uint64
}

func (e *connEntry) snapshot(id core.ConnectionID) Connection {
	c := Connection{ID: id, Room: e.room, Signal: e.signal, joinSeq: e.joinSeq}
	if e.participant != nil {
		p := *e.participant
		c.Participant = &p
	}
	return c
}

// Registry is the single store of open connections and their metadata.
type Registry struct {
	mu      sync.RWMutex
	conns   map[core.ConnectionID]*connEntry
	nextSeq uint64
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnectionID]*connEntry)}
}

// Register admits a connection for room and returns its fresh id.
func (r *Registry) Register(room domain.RoomID, sig core.SignalConnection, cancel context.CancelFunc) (core.ConnectionID, error) {
	if room == "" {
		return "", ErrNoRoom
	}
	if len(room) > domain.MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	id := core.ConnectionID(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{room: room, signal: sig, cancel: cancel}
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(room)).Msg("registered connection")
	return id, nil
}

// RecordJoin stores the participant fields, overwriting earlier ones.
// first is true when this is the connection's first join.
func (r *Registry) RecordJoin(id core.ConnectionID, p domain.Participant) (first bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false, false
	}
	if e.participant == nil {
		r.nextSeq++
		e.joinSeq = r.nextSeq
		first = true
	}
	e.participant = &p
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("user", string(p.ID)).Bool("first", first).Msg("recorded join")
	return first, true
}

func (r *Registry) Get(id core.ConnectionID) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return Connection{}, false
	}
	return e.snapshot(id), true
}

// Remove deletes the entry and returns what it held.
func (r *Registry) Remove(id core.ConnectionID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return Connection{}, false
	}
	delete(r.conns, id)
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Msg("removed connection")
	return e.snapshot(id), true
}

// ListByRoom returns the joined connections of room in join order.
func (r *Registry) ListByRoom(room domain.RoomID) []Connection {
	r.mu.RLock()
	out := make([]Connection, 0, 8)
	for id, e := range r.conns {
		if e.room == room && e.participant != nil {
			out = append(out, e.snapshot(id))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].joinSeq < out[j].joinSeq })
	return out
}

func (r *Registry) Cancel(id core.ConnectionID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.cancel != nil {
		e.cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
