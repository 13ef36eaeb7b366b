package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phish_analyses_total",
			Help: "Total number of analyzed emails",
		},
		[]string{"verdict"}, // verdict: phishing, legitimate
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "phish_analysis_duration_seconds",
			Help:    "End to end analysis duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
	)

	ClassifierFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phish_classifier_fallback_total",
			Help: "Number of times the neutral probability was used instead of a model output",
		},
		[]string{"reason"},
	)

	SignalFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phish_signal_faults_total",
			Help: "Number of analyzer faults replaced by default signals",
		},
		[]string{"detector"},
	)

	PersistenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phish_persistence_errors_total",
			Help: "Number of failed store or publish operations",
		},
		[]string{"op"},
	)

	ModelSwapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phish_model_swaps_total",
			Help: "Number of classifier model swaps",
		},
		[]string{"model"},
	)
)

// RecordAnalysis records a finished analysis
func RecordAnalysis(isPhishing bool, duration time.Duration) {
	verdict := "legitimate"
	if isPhishing {
		verdict = "phishing"
	}
	AnalysesTotal.WithLabelValues(verdict).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordClassifierFallback records a neutral probability fallback
func RecordClassifierFallback(reason string) {
	ClassifierFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordSignalFault records an analyzer fault
func RecordSignalFault(detector string) {
	SignalFaultsTotal.WithLabelValues(detector).Inc()
}

// RecordPersistenceError records a failed persistence operation
func RecordPersistenceError(op string) {
	PersistenceErrorsTotal.WithLabelValues(op).Inc()
}

// RecordModelSwap records a model replacement
func RecordModelSwap(model string) {
	ModelSwapsTotal.WithLabelValues(model).Inc()
}
