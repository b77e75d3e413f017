package analysis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

// Minimum fragments for a themed group to be considered an arc candidate.
const arcMinGroupSize = 3

// DefaultArcSignificanceThreshold is the post-filter applied by callers; the
// recognizer itself returns every candidate it built.
const DefaultArcSignificanceThreshold = 0.6

// RecognizeNarrativeArcs groups fragments by their first symbolic tag
// ("general" when untagged) and keeps groups whose confidence profile shows a
// conflict -> climax shape: the confidence minimum in the first half and the
// maximum strictly after it. All accepted candidates are returned regardless
// of significance; filtering below a threshold is the caller's decision.
func RecognizeNarrativeArcs(frags []fragment.Fragment) []NarrativeArc {
	groups := make(map[string][]fragment.Fragment)
	var themes []string
	for _, f := range frags {
		theme := f.FirstTag("general")
		if _, seen := groups[theme]; !seen {
			themes = append(themes, theme)
		}
		groups[theme] = append(groups[theme], f)
	}

	var arcs []NarrativeArc
	for _, theme := range themes {
		group := groups[theme]
		if len(group) < arcMinGroupSize {
			continue
		}
		if arc, ok := buildArc(theme, fragment.SortByTime(group)); ok {
			arcs = append(arcs, arc)
		}
	}

	return arcs
}

func buildArc(theme string, group []fragment.Fragment) (NarrativeArc, bool) {
	conflict, climax := 0, 0
	for i, f := range group {
		if f.ConfidenceScore < group[conflict].ConfidenceScore {
			conflict = i
		}
		if f.ConfidenceScore > group[climax].ConfidenceScore {
			climax = i
		}
	}

	// Shape guard: conflict in the first half, climax after the conflict.
	if conflict >= len(group)/2 || climax <= conflict {
		return NarrativeArc{}, false
	}

	ids := make([]string, len(group))
	trajectory := make([]float64, len(group))
	for i, f := range group {
		ids[i] = f.ID
		trajectory[i] = f.ConfidenceScore
	}

	final := group[len(group)-1]
	status := ResolutionOngoing
	if final.ConfidenceScore > 0.6 {
		status = ResolutionResolved
	}

	spread := group[climax].ConfidenceScore - group[conflict].ConfidenceScore
	sizeTerm := float64(len(group)) / 10.0
	if sizeTerm > 0.3 {
		sizeTerm = 0.3
	}
	significance := sizeTerm + 0.4*spread
	if status == ResolutionResolved {
		significance += 0.3
	}

	keyMoments := []string{group[conflict].ID, group[climax].ID}
	if final.ID != group[climax].ID {
		keyMoments = append(keyMoments, final.ID)
	}

	return NarrativeArc{
		ID:                  uuid.New().String(),
		Title:               fmt.Sprintf("The %s arc", theme),
		Fragments:           ids,
		KeyMoments:          keyMoments,
		Themes:              []string{theme},
		EmotionalTrajectory: trajectory,
		ResolutionStatus:    status,
		Significance:        significance,
	}, true
}

// FilterArcsBySignificance drops candidates below the threshold. Split out so
// the recognizer stays a pure candidate builder.
func FilterArcsBySignificance(arcs []NarrativeArc, threshold float64) []NarrativeArc {
	var kept []NarrativeArc
	for _, arc := range arcs {
		if arc.Significance >= threshold {
			kept = append(kept, arc)
		}
	}
	return kept
}
