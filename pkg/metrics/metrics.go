// Package metrics provides Prometheus metrics for the Fern engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal tracks record classifications by status
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "resolution",
			Name:      "records_total",
			Help:      "Total number of resolved records by classification status",
		},
		[]string{"status"},
	)

	// FieldResolutionsTotal tracks per-field resolutions by kind and method
	FieldResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "resolution",
			Name:      "fields_total",
			Help:      "Total number of field resolutions by entity kind and method",
		},
		[]string{"kind", "method"},
	)

	// EventMatchesTotal tracks calendar event match outcomes
	EventMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "events",
			Name:      "matches_total",
			Help:      "Total number of calendar event lookups by outcome",
		},
		[]string{"outcome"},
	)

	// UpstreamFailuresTotal tracks fail-open degradations by upstream
	UpstreamFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Total number of upstream failures tolerated by fail-open policies",
		},
		[]string{"upstream"},
	)

	// MessagesConsumedTotal tracks ingested raw game records
	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "kafka",
			Name:      "messages_consumed_total",
			Help:      "Total number of raw game messages consumed by result",
		},
		[]string{"result"},
	)
)

// Event match outcomes.
const (
	EventOutcomeMatched      = "matched"
	EventOutcomeAbsent       = "absent"
	EventOutcomeLookupFailed = "lookup_failed"
	EventOutcomeSkipped      = "skipped"
)
