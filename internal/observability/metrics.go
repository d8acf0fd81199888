package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_risk"

// ServiceName identifies this service in logs.
const ServiceName = "flood-elevation-service"

// Metrics holds the Prometheus counters, histograms, and gauges for the evaluation pipeline.
type Metrics struct {
	RequestsConsumed prometheus.Counter
	ResultsProduced  prometheus.Counter
	EvaluationErrors prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Risk model metrics.
	PolicyEvaluations *prometheus.CounterVec // labels: outcome={success,error}
	SweepDuration     prometheus.Histogram
	CurveCache        *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestsConsumed,
		m.ResultsProduced,
		m.EvaluationErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.PolicyEvaluations,
		m.SweepDuration,
		m.CurveCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      "Total evaluation requests read from the source topic.",
		}),
		ResultsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_produced_total",
			Help:      "Total evaluation results written to the sink topic.",
		}),
		EvaluationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Total requests that could not be evaluated.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-evaluate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PolicyEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_evaluations_total",
			Help:      "Height/scenario pairings evaluated, by outcome.",
		}, []string{"outcome"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of one request's height/scenario sweep.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		CurveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "damage_curve_cache_total",
			Help:      "Damage curve cache lookups by result.",
		}, []string{"result"}),
	}
}

// ObserveCurveCache records a damage curve cache lookup.
func (m *Metrics) ObserveCurveCache(hit bool) {
	if hit {
		m.CurveCache.WithLabelValues("hit").Inc()
		return
	}
	m.CurveCache.WithLabelValues("miss").Inc()
}
