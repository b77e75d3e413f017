package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides Prometheus metrics collection for analysis runs
type MetricsCollector struct {
	operationsTotal  *prometheus.CounterVec
	analyzerDuration *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	artifactCount    *prometheus.GaugeVec
	registry         *prometheus.Registry
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrospect_operations_total",
			Help: "Total number of analyzer runs by analyzer and status",
		},
		[]string{"analyzer", "status"},
	)

	analyzerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrospect_analyzer_duration_seconds",
			Help:    "Duration of analyzer passes by analyzer and stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"analyzer", "stage"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrospect_errors_total",
			Help: "Total number of errors by analyzer and error type",
		},
		[]string{"analyzer", "error_type"},
	)

	artifactCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retrospect_artifact_count",
			Help: "Current count of derived artifacts by type",
		},
		[]string{"type"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(analyzerDuration)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(artifactCount)

	return &MetricsCollector{
		operationsTotal:  operationsTotal,
		analyzerDuration: analyzerDuration,
		errorsTotal:      errorsTotal,
		artifactCount:    artifactCount,
		registry:         registry,
	}
}

// RecordOperation records the completion of an analyzer run
func (m *MetricsCollector) RecordOperation(ctx context.Context, analyzer string, status string, durationMs int64) {
	m.operationsTotal.WithLabelValues(analyzer, status).Inc()
}

// RecordStage records the duration of a specific stage within an analyzer pass
func (m *MetricsCollector) RecordStage(ctx context.Context, analyzer string, stage string, durationMs int64) {
	m.analyzerDuration.WithLabelValues(analyzer, stage).Observe(float64(durationMs) / 1000.0)
}

// RecordError records an error occurrence
func (m *MetricsCollector) RecordError(ctx context.Context, analyzer string, errorType string) {
	m.errorsTotal.WithLabelValues(analyzer, errorType).Inc()
}

// SetArtifactCount sets the current count for an artifact type
func (m *MetricsCollector) SetArtifactCount(ctx context.Context, artifactType string, count int64) {
	m.artifactCount.WithLabelValues(artifactType).Set(float64(count))
}

// Registry returns the Prometheus registry for HTTP exposure
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}
