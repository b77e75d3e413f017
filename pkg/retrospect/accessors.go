package retrospect

import (
	"sort"

	"github.com/dan-solli/retrospect/pkg/analysis"
	"github.com/dan-solli/retrospect/pkg/store"
)

// ChainByID returns a causal chain from the registry.
func (e *Engine) ChainByID(id string) (analysis.CausalChain, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	chain, ok := e.chains[id]
	if !ok {
		return analysis.CausalChain{}, store.ErrArtifactNotFound
	}
	return chain, nil
}

// ChainsByType returns all registered chains of the given type, sorted by id.
func (e *Engine) ChainsByType(chainType analysis.ChainType) []analysis.CausalChain {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []analysis.CausalChain
	for _, chain := range e.chains {
		if chain.ChainType == chainType {
			out = append(out, chain)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MilestoneByID returns a milestone from the registry.
func (e *Engine) MilestoneByID(id string) (analysis.MilestoneEvent, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.milestones[id]
	if !ok {
		return analysis.MilestoneEvent{}, store.ErrArtifactNotFound
	}
	return m, nil
}

// MilestonesByType returns all registered milestones of the given type,
// sorted by significance descending.
func (e *Engine) MilestonesByType(milestoneType analysis.MilestoneType) []analysis.MilestoneEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []analysis.MilestoneEvent
	for _, m := range e.milestones {
		if m.MilestoneType == milestoneType {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Significance != out[j].Significance {
			return out[i].Significance > out[j].Significance
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TrajectoriesByTrend returns all registered trajectories with the given
// trend, sorted by id.
func (e *Engine) TrajectoriesByTrend(trend string) []analysis.EmotionalTrajectory {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []analysis.EmotionalTrajectory
	for _, traj := range e.trajectories {
		if traj.Trend == trend {
			out = append(out, traj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SelfModel returns the most recently built self-narrative model, or nil if
// no pass has run yet.
func (e *Engine) SelfModel() *analysis.SelfNarrativeModel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastModel
}

// Summary aggregates registry counts for reporting.
type Summary struct {
	ChainCount               int                            `json:"chain_count"`
	ChainsByType             map[analysis.ChainType]int     `json:"chains_by_type"`
	MilestoneCount           int                            `json:"milestone_count"`
	MilestonesByType         map[analysis.MilestoneType]int `json:"milestones_by_type"`
	TrajectoryCount          int                            `json:"trajectory_count"`
	TrajectoriesByTrend      map[string]int                 `json:"trajectories_by_trend"`
	AvgMilestoneSignificance float64                        `json:"avg_milestone_significance"`
}

// AnalyticsSummary reports counts per artifact family and type.
func (e *Engine) AnalyticsSummary() Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Summary{
		ChainCount:          len(e.chains),
		ChainsByType:        make(map[analysis.ChainType]int),
		MilestoneCount:      len(e.milestones),
		MilestonesByType:    make(map[analysis.MilestoneType]int),
		TrajectoryCount:     len(e.trajectories),
		TrajectoriesByTrend: make(map[string]int),
	}
	for _, chain := range e.chains {
		s.ChainsByType[chain.ChainType]++
	}
	var sigSum float64
	for _, m := range e.milestones {
		s.MilestonesByType[m.MilestoneType]++
		sigSum += m.Significance
	}
	if len(e.milestones) > 0 {
		s.AvgMilestoneSignificance = sigSum / float64(len(e.milestones))
	}
	for _, traj := range e.trajectories {
		s.TrajectoriesByTrend[traj.Trend]++
	}
	return s
}
