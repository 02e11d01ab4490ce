package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/metrics"
	"github.com/dkeye/callroom/internal/protocol"
)

// Relay forwards a signaling frame to the one member of the sender's room
// whose participant id matches the target. Misses are dropped; the client
// retries at its own level if it cares.
func (o *Orchestrator) Relay(from core.ConnectionID, sig *protocol.Signal) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	sender, ok := o.Registry.Get(from)
	if !ok || !sender.Joined() {
		o.Metrics.Dropped(metrics.DropNotJoined)
		log.Debug().Str("module", "orch.signal").Str("conn", string(from)).Str("type", sig.Type).Msg("signal before join dropped")
		return false
	}
	if sig.Target == "" {
		o.Metrics.Dropped(metrics.DropNoTarget)
		log.Debug().Str("module", "orch.signal").Str("conn", string(from)).Str("type", sig.Type).Msg("signal without target dropped")
		return false
	}

	for _, m := range o.Registry.ListByRoom(sender.Room) {
		if m.Participant.ID != sig.Target {
			continue
		}
		b, err := sig.From(sender.Participant.ID)
		if err != nil {
			log.Error().Err(err).Str("module", "orch.signal").Msg("encode relayed frame")
			return false
		}
		if !o.send(m, b) {
			return false
		}
		o.Metrics.FramesRelayed.WithLabelValues(sig.Type).Inc()
		log.Debug().
			Str("module", "orch.signal").
			Str("room", string(sender.Room)).
			Str("type", sig.Type).
			Str("from", string(sender.Participant.ID)).
			Str("to", string(sig.Target)).
			Msg("relayed")
		return true
	}

	o.Metrics.Dropped(metrics.DropTargetMissing)
	log.Debug().
		Str("module", "orch.signal").
		Str("room", string(sender.Room)).
		Str("type", sig.Type).
		Str("to", string(sig.Target)).
		Msg("signal target not in room")
	return false
}
