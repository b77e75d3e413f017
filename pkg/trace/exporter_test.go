//go:build tracing

package trace

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileExporter_BasicExport(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	record := &PassRecord{
		Timestamp:     time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		PassID:        "pass-1",
		FragmentCount: 40,
		DurationMs:    1234,
		Status:        "success",
		Spans: []AnalyzerSpan{
			{Name: "causal", DurationMs: 100, OK: true},
			{Name: "milestone", DurationMs: 500, OK: true},
		},
	}

	if err := exporter.Export(context.Background(), record); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Close to flush
	if err := exporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Read back and verify
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("Read trace file failed: %v", err)
	}

	var readRecord PassRecord
	if err := json.Unmarshal(data, &readRecord); err != nil {
		t.Fatalf("Unmarshal pass record failed: %v", err)
	}

	if readRecord.PassID != "pass-1" {
		t.Errorf("Expected passId 'pass-1', got '%s'", readRecord.PassID)
	}
	if readRecord.FragmentCount != 40 {
		t.Errorf("Expected fragmentCount 40, got %d", readRecord.FragmentCount)
	}
	if len(readRecord.Spans) != 2 {
		t.Errorf("Expected 2 spans, got %d", len(readRecord.Spans))
	}
}

func TestNewFileExporter_EmptyPathIsNoop(t *testing.T) {
	exporter, err := NewFileExporter("")
	if err != nil {
		t.Fatalf("NewFileExporter(\"\") failed: %v", err)
	}

	record := &PassRecord{
		Timestamp:  time.Now(),
		PassID:     "noop-pass",
		DurationMs: 1,
		Status:     "success",
	}

	if err := exporter.Export(context.Background(), record); err != nil {
		t.Fatalf("Export on noop exporter should succeed, got: %v", err)
	}
	if err := exporter.Close(); err != nil {
		t.Fatalf("Close on noop exporter should succeed, got: %v", err)
	}
}

func TestFileExporter_MultipleRecords(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	// Write 3 records
	for i := 1; i <= 3; i++ {
		record := &PassRecord{
			Timestamp:  time.Now(),
			PassID:     "pass-" + string(rune('0'+i)),
			DurationMs: int64(i * 100),
			Status:     "success",
		}
		if err := exporter.Export(context.Background(), record); err != nil {
			t.Fatalf("Export %d failed: %v", i, err)
		}
	}

	if err := exporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Read all lines
	file, err := os.Open(tracePath)
	if err != nil {
		t.Fatalf("Open trace file failed: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		var record PassRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Errorf("Unmarshal line %d failed: %v", lineCount, err)
		}
	}

	if lineCount != 3 {
		t.Errorf("Expected 3 lines, got %d", lineCount)
	}
}

func TestFileExporter_Rotation(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	// Create exporter with small max size (1KB)
	exporter, err := NewFileExporter(tracePath, WithMaxSize(1024), WithMaxRotatedFiles(3))
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	// Write records until rotation happens
	// Each record ~200 bytes, so 6 records should trigger rotation
	for i := 0; i < 10; i++ {
		record := &PassRecord{
			Timestamp:  time.Now(),
			PassID:     "pass-" + strings.Repeat("x", 50), // Pad to increase size
			DurationMs: 1000,
			Status:     "success",
			Spans: []AnalyzerSpan{
				{Name: "causal", DurationMs: 100, OK: true, Counters: map[string]int64{"chainCount": 1}},
				{Name: "milestone", DurationMs: 200, OK: true},
			},
		}
		if err := exporter.Export(context.Background(), record); err != nil {
			t.Fatalf("Export %d failed: %v", i, err)
		}
	}

	if err := exporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Check that rotated files exist
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	fileCount := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "passes.jsonl") {
			fileCount++
		}
	}

	// Should have at least 2 files (current + rotated)
	if fileCount < 2 {
		t.Errorf("Expected at least 2 trace files, got %d", fileCount)
	}

	// Should not exceed maxRotatedFiles + 1 (current)
	if fileCount > 4 {
		t.Errorf("Expected at most 4 trace files (current + 3 rotated), got %d", fileCount)
	}
}

func TestFileExporter_NoFragmentContent(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	record := &PassRecord{
		Timestamp:     time.Now(),
		PassID:        "pass-x",
		FragmentCount: 12,
		DurationMs:    1000,
		Status:        "success",
		Spans: []AnalyzerSpan{
			{Name: "goal", DurationMs: 500, OK: true, Counters: map[string]int64{"goalArcCount": 2}},
		},
	}

	if err := exporter.Export(context.Background(), record); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if err := exporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Read file and verify only timing/count fields are present
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("Read trace file failed: %v", err)
	}

	content := string(data)

	prohibitedFields := []string{"content", "symbolic_tags", "learning_summary", "root_cause", "apiKey"}
	for _, field := range prohibitedFields {
		if strings.Contains(content, field) {
			t.Errorf("Trace contains prohibited field '%s': %s", field, content)
		}
	}

	allowedFields := []string{"passId", "fragmentCount", "durationMs", "status", "spans"}
	for _, field := range allowedFields {
		if !strings.Contains(content, field) {
			t.Errorf("Trace missing expected field '%s'", field)
		}
	}
}

func TestFileExporter_ErrorRecording(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	record := &PassRecord{
		Timestamp:  time.Now(),
		PassID:     "error-pass",
		DurationMs: 500,
		Status:     "error",
		ErrorType:  "database",
		Spans: []AnalyzerSpan{
			{Name: "causal", DurationMs: 500, OK: false, ErrorType: "database"},
		},
	}

	if err := exporter.Export(context.Background(), record); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if err := exporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Verify error fields
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("Read trace file failed: %v", err)
	}

	var readRecord PassRecord
	if err := json.Unmarshal(data, &readRecord); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if readRecord.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", readRecord.Status)
	}
	if readRecord.ErrorType != "database" {
		t.Errorf("Expected errorType 'database', got '%s'", readRecord.ErrorType)
	}
	if readRecord.Spans[0].OK {
		t.Error("Expected span OK=false")
	}
}

func TestFileExporter_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "passes.jsonl")

	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}

	// Close multiple times should not error
	if err := exporter.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := exporter.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestFileExporter_DirectoryCreation(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "nested", "subdir", "passes.jsonl")

	// Should create nested directories automatically
	exporter, err := NewFileExporter(tracePath)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}
	defer exporter.Close()

	// Verify directory exists
	if _, err := os.Stat(filepath.Dir(tracePath)); os.IsNotExist(err) {
		t.Error("Expected nested directory to be created")
	}
}
