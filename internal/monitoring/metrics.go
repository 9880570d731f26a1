package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector handles metrics collection and reporting for the costing
// service
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// Line outcomes recorded against the cost calculation counter.
const (
	OutcomeCosted     = "costed"
	OutcomeMismatch   = "mismatch"
	OutcomeIncomplete = "incomplete"
)

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	lineCalculations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "line_cost_calculations_total",
			Help: "Recipe lines costed, by outcome",
		},
		[]string{"outcome"},
	)

	recipeTotals := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_total_cost",
			Help:    "Distribution of computed recipe totals",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"currency"},
	)

	mismatchGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_unresolved_mismatches",
			Help: "Unresolved unit mismatches in the last breakdown per recipe",
		},
		[]string{"recipe_id"},
	)

	suggestionCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversion_suggestions_total",
			Help: "Conversion factor suggestions served, by outcome",
		},
		[]string{"resolved"},
	)

	metrics := map[string]prometheus.Collector{
		"line_calculations": lineCalculations,
		"recipe_totals":     recipeTotals,
		"mismatches":        mismatchGauge,
		"suggestions":       suggestionCounter,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the collector's registry for the /metrics handler
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordLineOutcome counts one costed line by outcome
func (mc *MetricsCollector) RecordLineOutcome(outcome string) {
	if counter, ok := mc.metrics["line_calculations"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(outcome).Inc()
	}
}

// RecordRecipeTotal records a computed recipe total
func (mc *MetricsCollector) RecordRecipeTotal(currency string, total float64) {
	if histogram, ok := mc.metrics["recipe_totals"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(currency).Observe(total)
	}
}

// RecordMismatchCount records the unresolved mismatch count of a breakdown
func (mc *MetricsCollector) RecordMismatchCount(recipeID string, count int) {
	if gauge, ok := mc.metrics["mismatches"].(*prometheus.GaugeVec); ok {
		gauge.WithLabelValues(recipeID).Set(float64(count))
	}
}

// RecordSuggestion counts one suggestion request
func (mc *MetricsCollector) RecordSuggestion(resolved bool) {
	if counter, ok := mc.metrics["suggestions"].(*prometheus.CounterVec); ok {
		label := "false"
		if resolved {
			label = "true"
		}
		counter.WithLabelValues(label).Inc()
	}
}
