package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegistry_RegisterRequiresRoom(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("", nopConn{}, nil)
	assert.ErrorIs(t, err, ErrNoRoom)

	_, err = r.Register(domain.RoomID(strings.Repeat("r", domain.MaxRoomIDLen+1)), nopConn{}, nil)
	assert.ErrorIs(t, err, ErrRoomIDTooLong)

	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RegisterGeneratesUniqueIDs(t *testing.T) {
	r := NewRegistry()
	seen := make(map[core.ConnectionID]bool)
	for range 100 {
		id, err := r.Register("abc", nopConn{}, nil)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, r.Len())
}

func TestRegistry_RecordJoinOverwrites(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register("abc", nopConn{}, nil)
	require.NoError(t, err)

	conn, ok := r.Get(id)
	require.True(t, ok)
	assert.False(t, conn.Joined())

	first, ok := r.RecordJoin(id, domain.Participant{ID: "u1", Name: "Alice"})
	require.True(t, ok)
	assert.True(t, first)

	first, ok = r.RecordJoin(id, domain.Participant{ID: "u1", Name: "Alice B.", IsHost: true})
	require.True(t, ok)
	assert.False(t, first)

	members := r.ListByRoom("abc")
	require.Len(t, members, 1)
	assert.Equal(t, "Alice B.", members[0].Participant.Name)
	assert.True(t, members[0].Participant.IsHost)

	_, ok = r.RecordJoin("missing", domain.Participant{ID: "u2", Name: "Bob"})
	assert.False(t, ok)
}

func TestRegistry_ListByRoom(t *testing.T) {
	r := NewRegistry()
	join := func(room domain.RoomID, user domain.ParticipantID) core.ConnectionID {
		id, err := r.Register(room, nopConn{}, nil)
		require.NoError(t, err)
		_, ok := r.RecordJoin(id, domain.Participant{ID: user, Name: string(user)})
		require.True(t, ok)
		return id
	}

	join("abc", "u1")
	join("abc", "u2")
	join("xyz", "u1")
	join("abc", "u3")
	_, err := r.Register("abc", nopConn{}, nil) // never joins
	require.NoError(t, err)

	members := r.ListByRoom("abc")
	require.Len(t, members, 3)
	assert.Equal(t, domain.ParticipantID("u1"), members[0].Participant.ID)
	assert.Equal(t, domain.ParticipantID("u2"), members[1].Participant.ID)
	assert.Equal(t, domain.ParticipantID("u3"), members[2].Participant.ID)

	assert.Len(t, r.ListByRoom("xyz"), 1)
	assert.Empty(t, r.ListByRoom("nope"))
}

func TestRegistry_SnapshotsAreCopies(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register("abc", nopConn{}, nil)
	require.NoError(t, err)
	r.RecordJoin(id, domain.Participant{ID: "u1", Name: "Alice"})

	conn, _ := r.Get(id)
	conn.Participant.Name = "mutated"

	again, _ := r.Get(id)
	assert.Equal(t, "Alice", again.Participant.Name)
}

func TestRegistry_RemoveAndCancel(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	id, err := r.Register("abc", nopConn{}, cancel)
	require.NoError(t, err)

	assert.True(t, r.Cancel(id))
	assert.Error(t, ctx.Err())

	removed, ok := r.Remove(id)
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("abc"), removed.Room)
	assert.False(t, removed.Joined())

	_, ok = r.Remove(id)
	assert.False(t, ok)
	assert.False(t, r.Cancel(id))
	assert.Equal(t, 0, r.Len())
}
