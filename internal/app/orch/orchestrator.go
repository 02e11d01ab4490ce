package orch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/app"
	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
	"github.com/dkeye/callroom/internal/metrics"
)

// Orchestrator serializes every membership change and the fan-out it
// triggers. Registry and Rooms lock for themselves; mu makes the
// mutate-snapshot-send sequence atomic per event.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomDirectory
	Policy   app.Policy
	Metrics  *metrics.Metrics

	mu sync.Mutex
}

func New(reg *app.Registry, rooms core.RoomDirectory, policy app.Policy, m *metrics.Metrics) *Orchestrator {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropFrame}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Orchestrator{Registry: reg, Rooms: rooms, Policy: policy, Metrics: m}
}

// Connect registers a freshly accepted transport in the unjoined state.
func (o *Orchestrator) Connect(room domain.RoomID, sig core.SignalConnection, cancel context.CancelFunc) (core.ConnectionID, error) {
	id, err := o.Registry.Register(room, sig, cancel)
	if err != nil {
		return "", err
	}
	o.Metrics.Connections.Inc()
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("room", string(room)).Msg("connection opened")
	return id, nil
}

// sendJSON encodes v and queues it for one recipient. Failures stay with
// that recipient; the policy may additionally drop its connection.
func (o *Orchestrator) sendJSON(to app.Connection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("sendJSON marshal")
		return
	}
	o.send(to, b)
}

func (o *Orchestrator) send(to app.Connection, b []byte) bool {
	if to.Signal == nil {
		return false
	}
	err := to.Signal.TrySend(b)
	if err == nil {
		return true
	}

	o.Metrics.SendFailures.WithLabelValues(failureReason(err)).Inc()
	log.Warn().Err(err).Str("module", "orch").Str("conn", string(to.ID)).Str("room", string(to.Room)).Msg("send failed")

	switch o.Policy.OnBackPressure(to.Room, to.ID, err) {
	case app.KickMember:
		log.Info().Str("module", "orch").Str("conn", string(to.ID)).Msg("kicking slow member")
		o.Registry.Cancel(to.ID)
		to.Signal.Close()
	case app.DropFrame, app.NoAction:
	}
	return false
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, core.ErrBackpressure):
		return "backpressure"
	case errors.Is(err, core.ErrConnClosed):
		return "closed"
	default:
		return "error"
	}
}
