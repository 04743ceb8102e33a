// Package metrics exposes Prometheus collectors for ingredient formatting.
// Collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for LinesFormatted.
const (
	OutcomeIngredient = "ingredient"
	OutcomeReference  = "reference"
	OutcomeUnmatched  = "unmatched"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

var (
	// LinesFormatted counts formatted lines by outcome.
	LinesFormatted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_lines_formatted_total",
			Help: "Total number of ingredient lines formatted, by outcome",
		},
		[]string{"outcome"},
	)

	// PantryMatches counts resolved pantry lookups by match method.
	PantryMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_pantry_matches_total",
			Help: "Total number of pantry matches, by method",
		},
		[]string{"method"},
	)

	// BatchDuration tracks how long FormatBatch takes.
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larder_batch_duration_seconds",
			Help:    "Duration of batch formatting in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// BatchLines tracks the size of formatted batches.
	BatchLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larder_batch_lines",
			Help:    "Number of lines per formatted batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)
)
