package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Relay metrics
	RelayEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "display_relay_events_total",
			Help: "Gateway message events by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: created|updated|deleted, outcome: stored|ignored|missing|error
	)

	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "display_relay_commands_total",
			Help: "Display commands by subcommand and outcome",
		},
		[]string{"subcommand", "outcome"}, // outcome: applied|rejected|limited|error
	)

	// Backfill metrics
	BackfillRecordsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "display_relay_backfill_records_updated_total",
			Help: "Stored messages rewritten by profile backfills",
		},
	)

	BackfillChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "display_relay_backfill_chunks_total",
			Help: "Backfill chunks committed",
		},
	)

	BackfillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "display_relay_backfill_duration_seconds",
			Help:    "Duration of a full profile backfill",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Infrastructure metrics
	PersistenceRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "display_relay_persistence_retries_total",
			Help: "Retried persistence operations",
		},
		[]string{"operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "display_relay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
