package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "redicalsearch",
			Name:      "command_duration_seconds",
			Help:      "Search command duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"command", "outcome"},
	)

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redicalsearch",
			Name:      "commands_total",
			Help:      "Total number of search commands issued",
		},
		[]string{"command", "outcome"},
	)
)

// RegisterCommandMetrics registers the search command collectors. Call once
// from the composition root.
func RegisterCommandMetrics() {
	prometheus.MustRegister(commandDuration)
	prometheus.MustRegister(commandsTotal)
}

// ObserveCommand records one search command dispatch.
func ObserveCommand(command string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commandDuration.WithLabelValues(command, outcome).Observe(time.Since(start).Seconds())
	commandsTotal.WithLabelValues(command, outcome).Inc()
}
