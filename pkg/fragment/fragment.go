// Package fragment defines the memory fragment input model consumed by the
// analysis engine. Fragments are produced and owned by an upstream memory
// store; this package only reads them.
package fragment

import (
	"context"
	"sort"
	"time"
)

// Valence is a categorical emotional label attached to a fragment.
// An empty valence means the upstream store recorded no emotional signal.
type Valence string

// Known valence labels.
const (
	ValencePositive Valence = "positive"
	ValenceNeutral  Valence = "neutral"
	ValenceNegative Valence = "negative"
)

// ValidValences are the labels an upstream store is expected to produce.
var ValidValences = map[Valence]bool{
	ValencePositive: true,
	ValenceNeutral:  true,
	ValenceNegative: true,
}

// Fragment is one discrete recorded experience or observation.
type Fragment struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	SymbolicTags     []string  `json:"symbolic_tags,omitempty"`
	ConfidenceScore  float64   `json:"confidence_score"`
	EmotionalValence Valence   `json:"emotional_valence,omitempty"`
	AssociativeLinks []string  `json:"associative_links,omitempty"`
}

// ValenceLabel returns the fragment's valence, defaulting to "neutral" when
// the upstream store recorded none. Analyzers always work with the label,
// never the raw field, so missing valences are defaulted rather than rejected.
func (f Fragment) ValenceLabel() string {
	if f.EmotionalValence == "" {
		return string(ValenceNeutral)
	}
	return string(f.EmotionalValence)
}

// FirstTag returns the fragment's first symbolic tag, or fallback if untagged.
func (f Fragment) FirstTag(fallback string) string {
	if len(f.SymbolicTags) == 0 {
		return fallback
	}
	return f.SymbolicTags[0]
}

// SortByTime returns a copy of frags sorted ascending by creation time.
// Every analyzer processes fragments in chronological order; sorting a copy
// keeps the caller's slice untouched.
func SortByTime(frags []Fragment) []Fragment {
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Source is the inbound contract with the upstream memory store: fragments
// recorded since the given time, orderable by creation timestamp.
type Source interface {
	Fragments(ctx context.Context, since time.Time) ([]Fragment, error)
}
