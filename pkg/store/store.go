// Package store persists derived analysis artifacts. Three artifact families
// are stored, one table each: causal chains, emotional trajectories, and
// milestone events. Writes are append-only upserts keyed by generated
// artifact id; there is no deletion path. Narrative arcs, goal arcs, and
// self-narrative models are recomputed on demand and deliberately not
// persisted.
package store

import (
	"context"
	"errors"

	"github.com/dan-solli/retrospect/pkg/analysis"
)

// ErrArtifactNotFound is returned when a lookup by id matches nothing.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore is the persistence contract for derived artifacts. Each Save
// call runs as a single transaction for its artifact family; Load calls
// hydrate everything for in-memory registries at engine construction.
type ArtifactStore interface {
	SaveCausalChains(ctx context.Context, chains []analysis.CausalChain) error
	SaveEmotionalTrajectories(ctx context.Context, trajectories []analysis.EmotionalTrajectory) error
	SaveMilestones(ctx context.Context, milestones []analysis.MilestoneEvent) error

	LoadCausalChains(ctx context.Context) ([]analysis.CausalChain, error)
	LoadEmotionalTrajectories(ctx context.Context) ([]analysis.EmotionalTrajectory, error)
	LoadMilestones(ctx context.Context) ([]analysis.MilestoneEvent, error)

	Close() error
}
