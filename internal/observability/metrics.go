package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the evaluation counters and histograms. Each instance owns
// its collectors so tests can register against a private registry.
type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	ParserOutcomes     *prometheus.CounterVec
	DetectorFailures   *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	ReadinessScore     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_evaluations_total",
				Help: "Total number of profile evaluations by operation and persona",
			},
			[]string{"operation", "persona"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_evaluation_duration_seconds",
				Help:    "Evaluation duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 20},
			},
			[]string{"operation"},
		),
		ParserOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_parser_outcomes_total",
				Help: "Parsed profiles by parser source and repair stage",
			},
			[]string{"source", "stage"},
		),
		DetectorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_detector_failures_total",
				Help: "Detector runs that failed and were replaced by a neutral result",
			},
			[]string{"detector"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_cache_lookups_total",
				Help: "Evaluation cache lookups by result",
			},
			[]string{"result"},
		),
		ReadinessScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "profile_readiness_score",
				Help:    "Distribution of aggregate readiness scores",
				Buckets: []float64{0, 2, 4, 5, 6, 7, 7.5, 8, 9, 10},
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.EvaluationsTotal,
			m.EvaluationDuration,
			m.ParserOutcomes,
			m.DetectorFailures,
			m.CacheLookups,
			m.ReadinessScore,
		)
	}
	return m
}

// ObserveEvaluation records one finished evaluation
func (m *Metrics) ObserveEvaluation(operation, persona string, score float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(operation, persona).Inc()
	m.EvaluationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.ReadinessScore.Observe(score)
}

// ObserveParse records which parser produced a profile
func (m *Metrics) ObserveParse(source, stage string) {
	if m == nil {
		return
	}
	if stage == "" {
		stage = "none"
	}
	m.ParserOutcomes.WithLabelValues(source, stage).Inc()
}

// ObserveDetectorFailure counts a detector that fell back to its neutral result
func (m *Metrics) ObserveDetectorFailure(detector string) {
	if m == nil {
		return
	}
	m.DetectorFailures.WithLabelValues(detector).Inc()
}

// ObserveCache counts a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
