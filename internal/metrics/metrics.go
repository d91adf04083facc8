// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Dispatcher metrics
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wither_commands_total",
			Help: "Chat commands handled, by kind and outcome (ok, denied, error)",
		},
		[]string{"kind", "outcome"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wither_command_duration_seconds",
			Help:    "Time spent executing a chat command",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// Relay metrics
	RelayMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wither_relay_messages_total",
			Help: "Messages relayed, by direction (to_chat, to_game)",
		},
		[]string{"direction"},
	)

	// Droplet metrics
	DropletOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wither_droplet_operations_total",
			Help: "Droplet lifecycle operations, by operation and result",
		},
		[]string{"operation", "result"},
	)

	// DNS metrics
	DNSCutoversTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wither_dns_cutovers_total",
			Help: "DNS cutovers attempted, by result (ok, failed)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(RelayMessagesTotal)
	prometheus.MustRegister(DropletOperationsTotal)
	prometheus.MustRegister(DNSCutoversTotal)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time on the histogram.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}
