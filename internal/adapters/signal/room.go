package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
	"github.com/dkeye/callroom/internal/metrics"
	"github.com/dkeye/callroom/internal/protocol"
)

func (ctl *SignalWSController) handleJoin(id core.ConnectionID, data []byte) {
	var p protocol.Join
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.Orch.Metrics.Dropped(metrics.DropInvalidJoin)
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad join payload")
		return
	}
	if err := ctl.validate.Struct(p); err != nil {
		ctl.Orch.Metrics.Dropped(metrics.DropInvalidJoin)
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("invalid join payload")
		return
	}
	participant, err := domain.NewParticipant(p.UserID, p.UserName, p.IsHost)
	if err != nil {
		ctl.Orch.Metrics.Dropped(metrics.DropInvalidJoin)
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("invalid participant")
		return
	}

	ctl.Orch.Join(id, *participant)
}
