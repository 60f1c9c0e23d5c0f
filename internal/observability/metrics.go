package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

const namespace = "tpa_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for assessments
// and the query pipeline.
type Metrics struct {
	AssessmentsTotal   *prometheus.CounterVec // labels: risk={very_likely,potential,relatively_safe}
	ValidationErrors   prometheus.Counter
	AssessmentErrors   prometheus.Counter
	Fallbacks          *prometheus.CounterVec // labels: quantity={waste,temperature,humidity}
	AssessmentDuration prometheus.Histogram

	// Query pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Loaded data.
	HistoricalRecords *prometheus.GaugeVec // labels: table={incidents,waste,temperature,humidity}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.ValidationErrors,
		m.AssessmentErrors,
		m.Fallbacks,
		m.AssessmentDuration,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HistoricalRecords,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed risk assessments by explosion-risk level.",
		}, []string{"risk"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Queries rejected by input validation.",
		}),
		AssessmentErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_errors_total",
			Help:      "Assessments that failed after validation.",
		}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Fallback values substituted during assessments.",
		}, []string{"quantity"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a single assessment.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total query messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total query messages that could not be assessed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the query pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of query messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HistoricalRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "historical_records",
			Help:      "Rows loaded per backing table at startup.",
		}, []string{"table"}),
	}
}

// RecordAssessment counts a completed assessment, its fallbacks, and its duration.
func (m *Metrics) RecordAssessment(a domain.Assessment, elapsed time.Duration) {
	m.AssessmentsTotal.WithLabelValues(string(a.Verdict.Risk)).Inc()
	for _, w := range a.Warnings {
		m.Fallbacks.WithLabelValues(strings.TrimSuffix(w.Code, "_fallback")).Inc()
	}
	m.AssessmentDuration.Observe(elapsed.Seconds())
}

// RecordAssessmentError counts a rejected or failed assessment.
func (m *Metrics) RecordAssessmentError(err error) {
	if domain.IsValidationError(err) {
		m.ValidationErrors.Inc()
		return
	}
	m.AssessmentErrors.Inc()
}
