package metrics

import "context"

// Collector is the interface for metrics collection.
// The Prometheus-backed MetricsCollector and the NoopCollector both
// implement it; both are available in every build.
type Collector interface {
	RecordOperation(ctx context.Context, analyzer string, status string, durationMs int64)
	RecordStage(ctx context.Context, analyzer string, stage string, durationMs int64)
	RecordError(ctx context.Context, analyzer string, errorType string)
	SetArtifactCount(ctx context.Context, artifactType string, count int64)
}
