package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropped(t *testing.T) {
	m := New()
	m.Dropped(DropParse)
	m.Dropped(DropParse)
	m.Dropped(DropTargetMissing)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDropped.WithLabelValues(DropParse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesDropped.WithLabelValues(DropTargetMissing)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Connections.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "callroom_connections 3")
}

func TestRegistry_GathersCollectors(t *testing.T) {
	m := New()
	m.RosterBroadcasts.Inc()
	m.FramesRelayed.WithLabelValues("offer").Inc()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["callroom_roster_broadcasts_total"])
	assert.True(t, names["callroom_frames_relayed_total"])
	assert.True(t, names["go_goroutines"])
}
