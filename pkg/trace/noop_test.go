//go:build !tracing

package trace

import (
	"context"
	"testing"
	"time"
)

func TestNoopExporter_AcceptsRecords(t *testing.T) {
	exporter, err := NewFileExporter("ignored.jsonl")
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}

	record := &PassRecord{
		Timestamp:  time.Now(),
		PassID:     "noop-pass",
		DurationMs: 1,
		Status:     "success",
		Spans: []AnalyzerSpan{
			{Name: "causal", DurationMs: 1, OK: true},
		},
	}

	if err := exporter.Export(context.Background(), record); err != nil {
		t.Fatalf("Export on noop exporter should succeed, got: %v", err)
	}
	if err := exporter.Close(); err != nil {
		t.Fatalf("Close on noop exporter should succeed, got: %v", err)
	}
}
