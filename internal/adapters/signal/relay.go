package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/metrics"
	"github.com/dkeye/callroom/internal/protocol"
)

func (ctl *SignalWSController) handleRelay(id core.ConnectionID, data []byte) {
	if !ctl.Limiter.Allow(id) {
		ctl.Orch.Metrics.Dropped(metrics.DropRateLimited)
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("signal rate limited")
		return
	}
	sig, err := protocol.ParseSignal(data)
	if err != nil {
		ctl.Orch.Metrics.Dropped(metrics.DropParse)
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad signal payload")
		return
	}
	ctl.Orch.Relay(id, sig)
}
