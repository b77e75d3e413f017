package retrospect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/analysis"
	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/trace"
)

// Analyzer names used in metrics labels and trace spans.
const (
	AnalyzerCausal    = "causal"
	AnalyzerNarrative = "narrative"
	AnalyzerEmotional = "emotional"
	AnalyzerMilestone = "milestone"
	AnalyzerGoal      = "goal"
	AnalyzerSelfModel = "self_model"
)

// AnalysisResult bundles the artifacts produced by one analysis pass.
type AnalysisResult struct {
	PassID       string                         `json:"pass_id"`
	Chains       []analysis.CausalChain         `json:"causal_chains"`
	Arcs         []analysis.NarrativeArc        `json:"narrative_arcs"`
	Trajectories []analysis.EmotionalTrajectory `json:"emotional_trajectories"`
	Milestones   []analysis.MilestoneEvent      `json:"milestones"`
	GoalArcs     []analysis.GoalMemoryArc       `json:"goal_arcs"`
	SelfModel    *analysis.SelfNarrativeModel   `json:"self_model"`

	FragmentCount int           `json:"fragment_count"`
	Duration      time.Duration `json:"-"`
}

// RunAnalysis runs all analyzers over one fragment batch. Analyzer panics
// are isolated: a failing analyzer contributes no artifacts and the pass
// continues. Persistence failures are logged and swallowed; the in-memory
// result is still returned.
func (e *Engine) RunAnalysis(ctx context.Context, frags []fragment.Fragment) (*AnalysisResult, error) {
	if len(frags) > e.config.MaxBatchSize {
		err := batchTooLargeError(len(frags), e.config.MaxBatchSize)
		e.metrics.RecordError(ctx, "pass", ClassifyError(err))
		return nil, err
	}

	start := time.Now()
	result := &AnalysisResult{
		PassID:        uuid.New().String(),
		FragmentCount: len(frags),
	}
	record := &trace.PassRecord{
		Timestamp:     start,
		PassID:        result.PassID,
		FragmentCount: len(frags),
		Status:        "success",
	}

	if len(frags) == 0 {
		e.logger.Info("empty fragment batch, nothing to analyze")
		result.Duration = time.Since(start)
		return result, nil
	}

	sorted := fragment.SortByTime(frags)

	e.runAnalyzer(ctx, record, AnalyzerCausal, func() map[string]int64 {
		chains := analysis.DetectCausalChains(sorted, analysis.CausalConfig{
			Window:        e.config.CausalWindow,
			LinkThreshold: e.config.CausalLinkThreshold,
		})
		result.Chains = analysis.EnhanceCausalChains(chains, sorted)
		return map[string]int64{"chainCount": int64(len(result.Chains))}
	})

	e.runAnalyzer(ctx, record, AnalyzerNarrative, func() map[string]int64 {
		arcs := analysis.RecognizeNarrativeArcs(sorted)
		result.Arcs = analysis.FilterArcsBySignificance(arcs, e.config.ArcSignificanceThreshold)
		return map[string]int64{"arcCount": int64(len(result.Arcs))}
	})

	e.runAnalyzer(ctx, record, AnalyzerEmotional, func() map[string]int64 {
		result.Trajectories = analysis.MapEmotionalTrajectories(sorted)
		return map[string]int64{"trajectoryCount": int64(len(result.Trajectories))}
	})

	e.runAnalyzer(ctx, record, AnalyzerMilestone, func() map[string]int64 {
		result.Milestones = analysis.DetectMilestones(sorted, analysis.MilestoneConfig{
			Threshold:     e.config.MilestoneThreshold,
			ContextWindow: e.config.MilestoneContext,
		})
		return map[string]int64{"milestoneCount": int64(len(result.Milestones))}
	})

	e.runAnalyzer(ctx, record, AnalyzerGoal, func() map[string]int64 {
		result.GoalArcs = analysis.AnalyzeGoalArcs(sorted)
		return map[string]int64{"goalArcCount": int64(len(result.GoalArcs))}
	})

	e.runAnalyzer(ctx, record, AnalyzerSelfModel, func() map[string]int64 {
		result.SelfModel = analysis.BuildSelfNarrative(sorted, analysis.SelfModelConfig{
			SampleInterval: e.config.GrowthSampleInterval,
			Logger:         e.logger,
		}, analysis.SelfModelInputs{
			Chains:     result.Chains,
			Milestones: result.Milestones,
		})
		return map[string]int64{"fragmentCount": int64(len(sorted))}
	})

	e.persist(ctx, result)
	e.register(result)

	result.Duration = time.Since(start)
	record.DurationMs = result.Duration.Milliseconds()
	if err := e.tracer.Export(ctx, record); err != nil {
		e.logger.Warn("trace export failed", "error", err)
	}

	e.logger.Info("analysis pass complete",
		"pass_id", result.PassID,
		"fragments", result.FragmentCount,
		"chains", len(result.Chains),
		"arcs", len(result.Arcs),
		"trajectories", len(result.Trajectories),
		"milestones", len(result.Milestones),
		"goal_arcs", len(result.GoalArcs),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// AnalyzeSource pulls fragments recorded since the given time from an
// upstream source and runs a full analysis pass over them. A zero since
// pulls the source's whole timeline.
func (e *Engine) AnalyzeSource(ctx context.Context, src fragment.Source, since time.Time) (*AnalysisResult, error) {
	frags, err := src.Fragments(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load fragments: %w", err)
	}
	return e.RunAnalysis(ctx, frags)
}

// runAnalyzer executes one analyzer with panic isolation. The closure
// returns span counters on success.
func (e *Engine) runAnalyzer(ctx context.Context, record *trace.PassRecord, name string, fn func() map[string]int64) {
	start := time.Now()
	span := trace.AnalyzerSpan{Name: name}

	defer func() {
		span.DurationMs = time.Since(start).Milliseconds()
		if r := recover(); r != nil {
			span.OK = false
			span.ErrorType = ErrTypeUnknown
			e.logger.Error("analyzer panicked", "analyzer", name, "panic", fmt.Sprint(r))
			e.metrics.RecordOperation(ctx, name, "error", span.DurationMs)
			e.metrics.RecordError(ctx, name, ErrTypeUnknown)
		} else {
			e.metrics.RecordOperation(ctx, name, "success", span.DurationMs)
		}
		e.metrics.RecordStage(ctx, name, "analyze", span.DurationMs)
		record.Spans = append(record.Spans, span)
	}()

	span.Counters = fn()
	span.OK = true
}

// persist writes the durable artifact families. Failures degrade to
// in-memory results: logged, counted, not returned.
func (e *Engine) persist(ctx context.Context, result *AnalysisResult) {
	if err := e.store.SaveCausalChains(ctx, result.Chains); err != nil {
		e.logger.Warn("persist causal chains failed", "error", err)
		e.metrics.RecordError(ctx, AnalyzerCausal, ClassifyError(err))
	}
	if err := e.store.SaveEmotionalTrajectories(ctx, result.Trajectories); err != nil {
		e.logger.Warn("persist emotional trajectories failed", "error", err)
		e.metrics.RecordError(ctx, AnalyzerEmotional, ClassifyError(err))
	}
	if err := e.store.SaveMilestones(ctx, result.Milestones); err != nil {
		e.logger.Warn("persist milestones failed", "error", err)
		e.metrics.RecordError(ctx, AnalyzerMilestone, ClassifyError(err))
	}
}

// register folds pass artifacts into the in-memory registries and refreshes
// artifact gauges.
func (e *Engine) register(result *AnalysisResult) {
	e.mu.Lock()
	for _, chain := range result.Chains {
		e.chains[chain.ID] = chain
	}
	for _, traj := range result.Trajectories {
		e.trajectories[traj.ID] = traj
	}
	for _, m := range result.Milestones {
		e.milestones[m.ID] = m
	}
	if result.SelfModel != nil {
		e.lastModel = result.SelfModel
	}
	chainCount := int64(len(e.chains))
	trajCount := int64(len(e.trajectories))
	milestoneCount := int64(len(e.milestones))
	e.mu.Unlock()

	ctx := context.Background()
	e.metrics.SetArtifactCount(ctx, "causal_chains", chainCount)
	e.metrics.SetArtifactCount(ctx, "trajectories", trajCount)
	e.metrics.SetArtifactCount(ctx, "milestones", milestoneCount)
}
