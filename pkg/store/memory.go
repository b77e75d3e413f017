package store

import (
	"context"
	"sync"

	"github.com/dan-solli/retrospect/pkg/analysis"
)

// MemoryArtifactStore is an in-memory ArtifactStore for tests and ephemeral
// runs. Safe for concurrent use.
type MemoryArtifactStore struct {
	mu           sync.RWMutex
	chains       map[string]analysis.CausalChain
	trajectories map[string]analysis.EmotionalTrajectory
	milestones   map[string]analysis.MilestoneEvent
}

// NewMemoryArtifactStore creates an empty in-memory artifact store.
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{
		chains:       make(map[string]analysis.CausalChain),
		trajectories: make(map[string]analysis.EmotionalTrajectory),
		milestones:   make(map[string]analysis.MilestoneEvent),
	}
}

// SaveCausalChains upserts chains by id.
func (s *MemoryArtifactStore) SaveCausalChains(ctx context.Context, chains []analysis.CausalChain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chain := range chains {
		s.chains[chain.ID] = chain
	}
	return nil
}

// SaveEmotionalTrajectories upserts trajectories by id.
func (s *MemoryArtifactStore) SaveEmotionalTrajectories(ctx context.Context, trajectories []analysis.EmotionalTrajectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, traj := range trajectories {
		s.trajectories[traj.ID] = traj
	}
	return nil
}

// SaveMilestones upserts milestones by id.
func (s *MemoryArtifactStore) SaveMilestones(ctx context.Context, milestones []analysis.MilestoneEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range milestones {
		s.milestones[m.ID] = m
	}
	return nil
}

// LoadCausalChains returns all stored chains.
func (s *MemoryArtifactStore) LoadCausalChains(ctx context.Context) ([]analysis.CausalChain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]analysis.CausalChain, 0, len(s.chains))
	for _, chain := range s.chains {
		out = append(out, chain)
	}
	return out, nil
}

// LoadEmotionalTrajectories returns all stored trajectories.
func (s *MemoryArtifactStore) LoadEmotionalTrajectories(ctx context.Context) ([]analysis.EmotionalTrajectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]analysis.EmotionalTrajectory, 0, len(s.trajectories))
	for _, traj := range s.trajectories {
		out = append(out, traj)
	}
	return out, nil
}

// LoadMilestones returns all stored milestones.
func (s *MemoryArtifactStore) LoadMilestones(ctx context.Context) ([]analysis.MilestoneEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]analysis.MilestoneEvent, 0, len(s.milestones))
	for _, m := range s.milestones {
		out = append(out, m)
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryArtifactStore) Close() error {
	return nil
}
