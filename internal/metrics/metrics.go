// Package metrics exposes the relay's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "callroom"

// Drop reasons for FramesDropped.
const (
	DropParse         = "parse"
	DropUnknownType   = "unknown_type"
	DropInvalidJoin   = "invalid_join"
	DropNotJoined     = "not_joined"
	DropNoTarget      = "no_target"
	DropTargetMissing = "target_missing"
	DropRateLimited   = "rate_limited"
)

type Metrics struct {
	reg *prometheus.Registry

	Connections      prometheus.Gauge
	Rooms            prometheus.Gauge
	FramesReceived   *prometheus.CounterVec
	FramesRelayed    *prometheus.CounterVec
	FramesDropped    *prometheus.CounterVec
	SendFailures     *prometheus.CounterVec
	RosterBroadcasts prometheus.Counter
}

// New builds collectors on a private registry so tests can create as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open call connections.",
		}),
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms with at least one joined member.",
		}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Inbound frames by type.",
		}, []string{"type"}),
		FramesRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_relayed_total",
			Help:      "Signaling frames delivered to their target.",
		}, []string{"type"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Inbound frames dropped without delivery.",
		}, []string{"reason"}),
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outbound frames that could not be queued for a recipient.",
		}, []string{"reason"}),
		RosterBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_broadcasts_total",
			Help:      "Participant snapshots pushed to a room.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Connections,
		m.Rooms,
		m.FramesReceived,
		m.FramesRelayed,
		m.FramesDropped,
		m.SendFailures,
		m.RosterBroadcasts,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Dropped(reason string) {
	m.FramesDropped.WithLabelValues(reason).Inc()
}
