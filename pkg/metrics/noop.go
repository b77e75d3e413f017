package metrics

import "context"

// NoopCollector is a no-op implementation of Collector. It is compiled in
// every build so callers can default to it regardless of the 'metrics' tag.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordOperation does nothing
func (n *NoopCollector) RecordOperation(ctx context.Context, analyzer string, status string, durationMs int64) {
}

// RecordStage does nothing
func (n *NoopCollector) RecordStage(ctx context.Context, analyzer string, stage string, durationMs int64) {
}

// RecordError does nothing
func (n *NoopCollector) RecordError(ctx context.Context, analyzer string, errorType string) {
}

// SetArtifactCount does nothing
func (n *NoopCollector) SetArtifactCount(ctx context.Context, artifactType string, count int64) {
}
