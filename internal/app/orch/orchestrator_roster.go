package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/app"
	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
	"github.com/dkeye/callroom/internal/protocol"
)

// broadcastRoster sends every member the roster without itself. members is
// one snapshot, so all recipients see the same membership.
func (o *Orchestrator) broadcastRoster(room domain.RoomID, members []app.Connection) {
	roster := make([]domain.Participant, 0, len(members))
	for _, m := range members {
		roster = append(roster, *m.Participant)
	}

	sent := 0
	for i, m := range members {
		others := make([]domain.Participant, 0, len(roster)-1)
		others = append(others, roster[:i]...)
		others = append(others, roster[i+1:]...)
		b, err := json.Marshal(protocol.NewParticipants(others, len(roster)))
		if err != nil {
			log.Error().Err(err).Str("module", "orch.roster").Msg("encode participants")
			return
		}
		if o.send(m, b) {
			sent++
		}
	}
	o.Metrics.RosterBroadcasts.Inc()
	log.Debug().Str("module", "orch.roster").Str("room", string(room)).Int("members", len(members)).Int("sent_to", sent).Msg("roster broadcast")
}

func (o *Orchestrator) notifyJoined(joiner core.ConnectionID, p domain.Participant, members []app.Connection) {
	ev := protocol.NewUserJoined(p)
	for _, m := range members {
		if m.ID == joiner {
			continue
		}
		o.sendJSON(m, ev)
	}
}

func (o *Orchestrator) notifyLeft(p domain.Participant, members []app.Connection) {
	ev := protocol.NewUserLeft(p)
	for _, m := range members {
		o.sendJSON(m, ev)
	}
}
