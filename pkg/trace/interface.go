package trace

import (
	"context"
	"time"
)

// Exporter defines the interface for exporting analysis pass traces.
// Implementations must be safe for concurrent use.
type Exporter interface {
	// Export writes a pass record to the configured destination.
	// Returns error if export fails.
	Export(ctx context.Context, record *PassRecord) error

	// Close flushes any buffered records and releases resources.
	// Should be called during graceful shutdown.
	Close() error
}

// PassRecord represents one sanitized analysis pass ready for export.
// This structure contains NO fragment content, tags, or summaries.
type PassRecord struct {
	// Timestamp is the pass start time
	Timestamp time.Time `json:"timestamp"`

	// PassID uniquely identifies this analysis pass (for correlation)
	PassID string `json:"passId"`

	// FragmentCount is the size of the analyzed batch
	FragmentCount int `json:"fragmentCount"`

	// DurationMs is the total pass duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// Status is "success" or "error"
	Status string `json:"status"`

	// Spans contains per-analyzer timing and status
	Spans []AnalyzerSpan `json:"spans"`

	// ErrorType classifies the error (if Status == "error")
	// Values: timeout, database, validation, unknown
	ErrorType string `json:"errorType,omitempty"`
}

// AnalyzerSpan represents a single analyzer within a pass.
type AnalyzerSpan struct {
	// Name is the analyzer name (causal, narrative, emotional, milestone, goal, self_model)
	Name string `json:"name"`

	// DurationMs is the analyzer duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// OK indicates success (true) or failure (false)
	OK bool `json:"ok"`

	// ErrorType classifies the error (if OK == false)
	ErrorType string `json:"errorType,omitempty"`

	// Counters provides analyzer-specific totals (e.g., chainCount, milestoneCount)
	Counters map[string]int64 `json:"counters,omitempty"`
}

// FileExporterOption configures a FileExporter.
// This type is available in both tracing and non-tracing builds to maintain API compatibility.
type FileExporterOption func(interface{})

// nopExporter backs NewFileExporter("") in tracing builds: an empty path
// means tracing is configured off even when compiled in.
type nopExporter struct{}

func (nopExporter) Export(ctx context.Context, record *PassRecord) error { return nil }

func (nopExporter) Close() error { return nil }
