package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCollector_RecordOperation(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordOperation(ctx, "causal", "success", 12)
	collector.RecordOperation(ctx, "causal", "success", 8)
	collector.RecordOperation(ctx, "causal", "error", 3)
	collector.RecordOperation(ctx, "milestone", "success", 5)

	if got := testutil.CollectAndCount(collector.operationsTotal); got != 3 {
		t.Errorf("expected 3 metric series (causal/success, causal/error, milestone/success), got %d", got)
	}

	causalSuccess := testutil.ToFloat64(collector.operationsTotal.WithLabelValues("causal", "success"))
	if causalSuccess != 2 {
		t.Errorf("expected 2 causal/success runs, got %f", causalSuccess)
	}

	causalError := testutil.ToFloat64(collector.operationsTotal.WithLabelValues("causal", "error"))
	if causalError != 1 {
		t.Errorf("expected 1 causal/error run, got %f", causalError)
	}
}

func TestMetricsCollector_RecordStage(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordStage(ctx, "causal", "detect", 10)
	collector.RecordStage(ctx, "causal", "enhance", 25)
	collector.RecordStage(ctx, "causal", "enhance", 30)

	if got := testutil.CollectAndCount(collector.analyzerDuration); got != 2 {
		t.Errorf("expected 2 histogram series, got %d", got)
	}

	enhanceHistogram := collector.analyzerDuration.WithLabelValues("causal", "enhance")
	if enhanceHistogram == nil {
		t.Error("expected enhance histogram to exist")
	}
}

func TestMetricsCollector_RecordError(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordError(ctx, "causal", "database")
	collector.RecordError(ctx, "causal", "database")
	collector.RecordError(ctx, "causal", "validation")
	collector.RecordError(ctx, "milestone", "timeout")

	databaseErrors := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("causal", "database"))
	if databaseErrors != 2 {
		t.Errorf("expected 2 database errors, got %f", databaseErrors)
	}

	validationErrors := testutil.ToFloat64(collector.errorsTotal.WithLabelValues("causal", "validation"))
	if validationErrors != 1 {
		t.Errorf("expected 1 validation error, got %f", validationErrors)
	}
}

func TestMetricsCollector_SetArtifactCount(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.SetArtifactCount(ctx, "causal_chains", 42)
	collector.SetArtifactCount(ctx, "milestones", 7)
	collector.SetArtifactCount(ctx, "trajectories", 3)

	chains := testutil.ToFloat64(collector.artifactCount.WithLabelValues("causal_chains"))
	if chains != 42 {
		t.Errorf("expected 42 causal chains, got %f", chains)
	}

	collector.SetArtifactCount(ctx, "causal_chains", 50)
	chains = testutil.ToFloat64(collector.artifactCount.WithLabelValues("causal_chains"))
	if chains != 50 {
		t.Errorf("expected 50 causal chains after update, got %f", chains)
	}
}

func TestMetricsCollector_Registry(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordOperation(ctx, "test", "success", 100)
	collector.RecordStage(ctx, "test", "stage1", 50)
	collector.RecordError(ctx, "test", "error1")
	collector.SetArtifactCount(ctx, "milestones", 10)

	registry := collector.Registry()
	if registry == nil {
		t.Fatal("expected non-nil registry")
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	// operations_total, analyzer_duration, errors_total, artifact_count
	expectedFamilies := 4
	if len(metricFamilies) != expectedFamilies {
		t.Errorf("expected %d metric families, got %d", expectedFamilies, len(metricFamilies))
	}
}

// TestMetricsCollector_NoPayloadLeakage verifies metrics contain no fragment content
func TestMetricsCollector_NoPayloadLeakage(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()

	collector.RecordOperation(ctx, "causal", "success", 1000)
	collector.RecordStage(ctx, "causal", "enhance", 500)
	collector.RecordError(ctx, "causal", "database")

	metricFamilies, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	// Label values must stay at analyzer/stage/status vocabulary; fragment
	// content, tags, and summaries never reach metric labels.
	forbiddenTerms := []string{"content", "summary", "tag", "fragment_id", "api_key", "Bearer"}
	for _, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				value := label.GetValue()
				for _, term := range forbiddenTerms {
					if value == term {
						t.Errorf("found forbidden term %q in metric label", term)
					}
				}
			}
		}
	}
}
