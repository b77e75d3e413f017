// Package retrospect provides a reflective timeline analysis engine over
// chronological memory fragments. A single analysis pass runs six analyzers
// (causal chains, narrative arcs, emotional trajectories, milestones, goal
// arcs, self-narrative model) and persists the durable artifact families.
package retrospect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dan-solli/retrospect/pkg/analysis"
	"github.com/dan-solli/retrospect/pkg/metrics"
	"github.com/dan-solli/retrospect/pkg/store"
	"github.com/dan-solli/retrospect/pkg/trace"
)

// DefaultMaxBatchSize caps the fragment count per analysis pass. The causal
// and milestone analyzers are quadratic in batch size.
const DefaultMaxBatchSize = 500

// Config holds configuration for the analysis engine
type Config struct {
	// CausalWindow is the max gap between causally linked fragments (default: 24h)
	CausalWindow time.Duration

	// CausalLinkThreshold is the min strength for a causal link (default: 0.5)
	CausalLinkThreshold float64

	// ArcSignificanceThreshold filters reported narrative arcs (default: 0.6)
	ArcSignificanceThreshold float64

	// MilestoneThreshold is the min significance for a milestone (default: 0.7)
	MilestoneThreshold float64

	// MilestoneContext is the window for prerequisites/consequences (default: 7 days)
	MilestoneContext time.Duration

	// GrowthSampleInterval samples every Nth fragment for the growth
	// trajectory (default: 10)
	GrowthSampleInterval int

	// MaxBatchSize rejects batches larger than this (default: 500)
	MaxBatchSize int

	// Store persists derived artifacts. Defaults to an in-memory store.
	Store store.ArtifactStore

	// Metrics collects operation metrics. Defaults to a no-op collector.
	Metrics metrics.Collector

	// Tracer exports per-pass trace records. Defaults to a no-op exporter.
	Tracer trace.Exporter

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Engine is the main entry point for timeline analysis. It owns in-memory
// registries of the persisted artifact families, hydrated from the store at
// construction and updated after every pass.
type Engine struct {
	config  Config
	store   store.ArtifactStore
	metrics metrics.Collector
	tracer  trace.Exporter
	logger  *slog.Logger

	mu           sync.RWMutex
	chains       map[string]analysis.CausalChain
	trajectories map[string]analysis.EmotionalTrajectory
	milestones   map[string]analysis.MilestoneEvent
	lastModel    *analysis.SelfNarrativeModel
}

// New creates an analysis engine and hydrates its registries from the store.
func New(cfg Config) (*Engine, error) {
	if cfg.CausalWindow == 0 {
		cfg.CausalWindow = 24 * time.Hour
	}
	if cfg.CausalLinkThreshold == 0 {
		cfg.CausalLinkThreshold = 0.5
	}
	if cfg.ArcSignificanceThreshold == 0 {
		cfg.ArcSignificanceThreshold = analysis.DefaultArcSignificanceThreshold
	}
	if cfg.MilestoneThreshold == 0 {
		cfg.MilestoneThreshold = 0.7
	}
	if cfg.MilestoneContext == 0 {
		cfg.MilestoneContext = 7 * 24 * time.Hour
	}
	if cfg.GrowthSampleInterval == 0 {
		cfg.GrowthSampleInterval = 10
	}
	if cfg.MaxBatchSize == 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryArtifactStore()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopCollector()
	}
	if cfg.Tracer == nil {
		tracer, err := trace.NewFileExporter("")
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		cfg.Tracer = tracer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	e := &Engine{
		config:       cfg,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
		logger:       cfg.Logger,
		chains:       make(map[string]analysis.CausalChain),
		trajectories: make(map[string]analysis.EmotionalTrajectory),
		milestones:   make(map[string]analysis.MilestoneEvent),
	}

	if err := e.hydrate(context.Background()); err != nil {
		return nil, fmt.Errorf("hydrate registries: %w", err)
	}

	return e, nil
}

// hydrate loads all persisted artifacts into the in-memory registries.
func (e *Engine) hydrate(ctx context.Context) error {
	chains, err := e.store.LoadCausalChains(ctx)
	if err != nil {
		return fmt.Errorf("load causal chains: %w", err)
	}
	trajectories, err := e.store.LoadEmotionalTrajectories(ctx)
	if err != nil {
		return fmt.Errorf("load emotional trajectories: %w", err)
	}
	milestones, err := e.store.LoadMilestones(ctx)
	if err != nil {
		return fmt.Errorf("load milestones: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, chain := range chains {
		e.chains[chain.ID] = chain
	}
	for _, traj := range trajectories {
		e.trajectories[traj.ID] = traj
	}
	for _, m := range milestones {
		e.milestones[m.ID] = m
	}
	return nil
}

// Config returns the resolved engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Close releases the store and flushes the tracer.
func (e *Engine) Close() error {
	traceErr := e.tracer.Close()
	storeErr := e.store.Close()
	if storeErr != nil {
		return fmt.Errorf("close store: %w", storeErr)
	}
	if traceErr != nil {
		return fmt.Errorf("close tracer: %w", traceErr)
	}
	return nil
}
