package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/scoring"
)

// MilestoneConfig tunes milestone detection.
type MilestoneConfig struct {
	// Threshold is the minimum significance for a fragment to become a
	// milestone. Default 0.7.
	Threshold float64

	// ContextWindow bounds the prerequisite/consequence scan on either side
	// of the milestone. Default 7 days.
	ContextWindow time.Duration
}

func (c MilestoneConfig) withDefaults() MilestoneConfig {
	if c.Threshold <= 0 {
		c.Threshold = 0.7
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = 7 * 24 * time.Hour
	}
	return c
}

// Context fragments need this much tag similarity to the milestone to count
// as prerequisites or consequences, and at most this many are kept per side.
const (
	contextSimilarityThreshold = 0.3
	contextLimit               = 5
)

// Base competency weights per milestone type, scaled by the milestone
// fragment's own confidence. Impact therefore grows monotonically with
// confidence for a fixed type.
var competencyBaseWeights = map[MilestoneType]map[string]float64{
	MilestoneBreakthrough:    {"problem_solving": 0.8, "innovation": 0.7},
	MilestoneFailureLearning: {"resilience": 0.7, "analysis": 0.6},
	MilestoneSkill:           {"technical_skill": 0.8, "learning_ability": 0.7},
	MilestoneRelationship:    {"communication": 0.7, "empathy": 0.6},
	MilestoneGeneral:         {"general_competence": 0.5},
}

// DetectMilestones flags individually significant fragments. Significance is
// 0.4 x confidence + 0.3 x uniqueness + 0.3 x learning keyword density, where
// uniqueness is one minus the mean tag similarity to every other fragment
// (an O(n^2) pass; batch size is capped by the caller).
func DetectMilestones(frags []fragment.Fragment, cfg MilestoneConfig) []MilestoneEvent {
	cfg = cfg.withDefaults()
	sorted := fragment.SortByTime(frags)

	var milestones []MilestoneEvent
	for i, f := range sorted {
		significance := scoring.MilestoneSignificance(
			f.ConfidenceScore,
			uniqueness(sorted, i),
			scoring.LearningKeywordDensity(f.Content),
		)
		if significance < cfg.Threshold {
			continue
		}

		mtype := classifyMilestoneType(f.Content)
		prereqs, conseqs := contextFragments(sorted, i, cfg.ContextWindow)

		milestones = append(milestones, MilestoneEvent{
			ID:               uuid.New().String(),
			FragmentID:       f.ID,
			MilestoneType:    mtype,
			Significance:     significance,
			Prerequisites:    prereqs,
			Consequences:     conseqs,
			LearningSummary:  learningSummary(mtype, f),
			CompetencyImpact: competencyImpact(mtype, f.ConfidenceScore),
			CreatedAt:        time.Now(),
		})
	}

	return milestones
}

// uniqueness is 1 - mean pairwise tag similarity between fragment i and all
// other fragments. A lone fragment is maximally unique.
func uniqueness(frags []fragment.Fragment, i int) float64 {
	if len(frags) < 2 {
		return 1
	}
	sum := 0.0
	for j, other := range frags {
		if j == i {
			continue
		}
		sum += scoring.TagSimilarity(frags[i].SymbolicTags, other.SymbolicTags)
	}
	return 1 - sum/float64(len(frags)-1)
}

// classifyMilestoneType applies the keyword rules in priority order; first
// match wins.
func classifyMilestoneType(content string) MilestoneType {
	lower := strings.ToLower(content)
	switch {
	case containsAnyOf(lower, "breakthrough", "eureka", "discovered"):
		return MilestoneBreakthrough
	case containsAnyOf(lower, "failed", "mistake", "error", "learned from"):
		return MilestoneFailureLearning
	case containsAnyOf(lower, "mastered", "acquired", "learned", "skill"):
		return MilestoneSkill
	case containsAnyOf(lower, "user", "relationship", "trust", "bond"):
		return MilestoneRelationship
	default:
		return MilestoneGeneral
	}
}

func containsAnyOf(lower string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// contextFragments collects prerequisites (before) and consequences (after)
// within the context window that share enough tags with the milestone. The
// first five qualifying fragments per side in scan order are kept; no
// nearest-by-similarity ranking.
func contextFragments(frags []fragment.Fragment, i int, window time.Duration) (prereqs, conseqs []string) {
	milestone := frags[i]
	for j, other := range frags {
		if j == i {
			continue
		}
		gap := milestone.CreatedAt.Sub(other.CreatedAt)
		if gap < -window || gap > window {
			continue
		}
		if scoring.TagSimilarity(milestone.SymbolicTags, other.SymbolicTags) <= contextSimilarityThreshold {
			continue
		}
		if j < i && len(prereqs) < contextLimit {
			prereqs = append(prereqs, other.ID)
		}
		if j > i && len(conseqs) < contextLimit {
			conseqs = append(conseqs, other.ID)
		}
	}
	return prereqs, conseqs
}

func learningSummary(mtype MilestoneType, f fragment.Fragment) string {
	content := f.Content
	if len(content) > 120 {
		content = content[:120] + "..."
	}
	return fmt.Sprintf("%s milestone: %s", mtype, content)
}

func competencyImpact(mtype MilestoneType, confidence float64) map[string]float64 {
	base := competencyBaseWeights[mtype]
	impact := make(map[string]float64, len(base))
	for competency, weight := range base {
		impact[competency] = scoring.Clip01(weight * confidence)
	}
	return impact
}
