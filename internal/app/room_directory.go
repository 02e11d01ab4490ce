package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[core.ConnectionID]struct{}
}

func NewRoomDirectory() core.RoomDirectory {
	return &RoomDirectory{rooms: make(map[domain.RoomID]map[core.ConnectionID]struct{})}
}

func (d *RoomDirectory) Join(room domain.RoomID, id core.ConnectionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		members = make(map[core.ConnectionID]struct{})
		d.rooms[room] = members
		log.Info().Str("module", "app.rooms").Str("room", string(room)).Msg("room created")
	}
	members[id] = struct{}{}
}

// Leave drops id from room and deletes the room once it is empty, under the
// same lock, so an empty room is never observable.
func (d *RoomDirectory) Leave(room domain.RoomID, id core.ConnectionID) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		return 0, false
	}
	delete(members, id)
	if len(members) == 0 {
		delete(d.rooms, room)
		log.Info().Str("module", "app.rooms").Str("room", string(room)).Msg("room removed")
		return 0, false
	}
	return len(members), true
}

func (d *RoomDirectory) Members(room domain.RoomID) []core.ConnectionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[room]
	out := make([]core.ConnectionID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

func (d *RoomDirectory) Exists(room domain.RoomID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room]
	return ok
}

func (d *RoomDirectory) List() []core.RoomInfo {
	d.mu.RLock()
	out := make([]core.RoomInfo, 0, len(d.rooms))
	for id, members := range d.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: len(members)})
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *RoomDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
