// Package metrics exposes game server measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "wordchain"

// Metrics records room operations. It satisfies the room controller's Observer.
type Metrics struct {
	registry *prometheus.Registry

	actions       *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
	activeRooms   prometheus.Gauge
	roundsEnded   *prometheus.CounterVec
}

// New creates the metrics on a dedicated registry, including Go runtime
// and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "actions_total",
			Help:      "Room actions processed, by action and outcome",
		}, []string{"action", "outcome"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "action_duration_seconds",
			Help:      "Room action processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}, []string{"action"}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms with at least one player",
		}),
		roundsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rounds_ended_total",
			Help:      "Finished rounds, by reason",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.actions,
		m.actionLatency,
		m.activeRooms,
		m.roundsEnded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAction counts an action and records its latency
func (m *Metrics) ObserveAction(action string, outcome string, elapsed time.Duration) {
	m.actions.WithLabelValues(action, outcome).Inc()
	m.actionLatency.WithLabelValues(action).Observe(elapsed.Seconds())
}

// RoomCreated increments the active room gauge
func (m *Metrics) RoomCreated() {
	m.activeRooms.Inc()
}

// RoomDeleted decrements the active room gauge
func (m *Metrics) RoomDeleted() {
	m.activeRooms.Dec()
}

// SetActiveRooms seeds the active room gauge, e.g. from storage at startup
func (m *Metrics) SetActiveRooms(count int) {
	m.activeRooms.Set(float64(count))
}

// RoundEnded counts a finished round
func (m *Metrics) RoundEnded(reason string) {
	m.roundsEnded.WithLabelValues(reason).Inc()
}

// RegisterConnectedClients exposes the number of push subscribers, read at scrape time
func (m *Metrics) RegisterConnectedClients(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "connected_clients",
		Help:      "Number of SSE and WebSocket subscribers",
	}, func() float64 {
		return float64(count())
	}))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
