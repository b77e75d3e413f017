package analysis

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/scoring"
)

// Goal bucket for fragments with no goal signal at all. Never analyzed.
const goalBucketNone = "no_goal"

// Catch-all goal for fragments that mention goals in content without a goal
// tag.
const goalBucketGeneral = "general_goal"

// Keyword lists for goal arc annotations.
var (
	strategyKeywords = []string{"strategy", "approach", "method", "plan", "switched"}
	obstacleKeywords = []string{"obstacle", "blocked", "stuck", "difficult", "struggle", "setback"}
)

// goalReferences extracts the goals a fragment speaks to: any tag containing
// "goal", else the general bucket when the content mentions goals, else the
// no-goal bucket.
func goalReferences(f fragment.Fragment) []string {
	var refs []string
	for _, tag := range f.SymbolicTags {
		if strings.Contains(strings.ToLower(tag), "goal") {
			refs = append(refs, tag)
		}
	}
	if len(refs) > 0 {
		return refs
	}
	if strings.Contains(strings.ToLower(f.Content), "goal") {
		return []string{goalBucketGeneral}
	}
	return []string{goalBucketNone}
}

// AnalyzeGoalArcs groups fragments by referenced goal and characterizes each
// pursuit. Groups of fewer than two fragments are skipped, as is the no-goal
// bucket. ArcType and OutcomeAssessment threshold the same confidence
// sequence independently and are allowed to disagree; neither is derived from
// the other.
func AnalyzeGoalArcs(frags []fragment.Fragment) []GoalMemoryArc {
	groups := make(map[string][]fragment.Fragment)
	for _, f := range frags {
		for _, goal := range goalReferences(f) {
			groups[goal] = append(groups[goal], f)
		}
	}

	var arcs []GoalMemoryArc
	for _, goal := range sortedGroupKeys(groups) {
		group := groups[goal]
		if goal == goalBucketNone || len(group) < 2 {
			continue
		}
		arcs = append(arcs, buildGoalArc(goal, fragment.SortByTime(group)))
	}

	return arcs
}

func buildGoalArc(goal string, group []fragment.Fragment) GoalMemoryArc {
	arc := GoalMemoryArc{
		ID:               uuid.New().String(),
		GoalID:           goal,
		MemorySequence:   make([]string, len(group)),
		EmotionalJourney: make(map[string]float64),
	}

	minConf, maxConf := group[0].ConfidenceScore, group[0].ConfidenceScore
	for i, f := range group {
		arc.MemorySequence[i] = f.ID
		arc.EmotionalJourney[f.ValenceLabel()] += f.ConfidenceScore
		if f.ConfidenceScore < minConf {
			minConf = f.ConfidenceScore
		}
		if f.ConfidenceScore > maxConf {
			maxConf = f.ConfidenceScore
		}

		delta := 0.0
		if i > 0 {
			delta = f.ConfidenceScore - group[i-1].ConfidenceScore
		}
		if f.ConfidenceScore > 0.8 || delta > 0.3 {
			arc.ProgressMarkers = append(arc.ProgressMarkers, ProgressMarker{
				FragmentID: f.ID,
				Timestamp:  f.CreatedAt,
				Confidence: f.ConfidenceScore,
				Delta:      delta,
			})
		}
		if delta > 0.3 || scoring.ContainsAny(f.Content, []string{"breakthrough"}) {
			arc.BreakthroughMoments = append(arc.BreakthroughMoments, f.ID)
		}
		if scoring.ContainsAny(f.Content, scoring.LearningKeywords) {
			arc.LearningMilestones = append(arc.LearningMilestones, f.ID)
		}
		if scoring.ContainsAny(f.Content, strategyKeywords) {
			arc.StrategyEvolution = append(arc.StrategyEvolution, f.Content)
		}
		if scoring.ContainsAny(f.Content, obstacleKeywords) {
			arc.ObstaclePatterns = append(arc.ObstaclePatterns, f.Content)
		}
	}

	final := group[len(group)-1].ConfidenceScore
	confRange := maxConf - minConf

	switch {
	case final > 0.8:
		arc.ArcType = GoalAchievement
	case final < 0.3:
		arc.ArcType = GoalAbandonment
	case confRange > 0.4:
		arc.ArcType = GoalStruggle
	default:
		arc.ArcType = GoalEvolution
	}

	switch {
	case final > 0.8:
		arc.OutcomeAssessment = OutcomeSuccessful
	case final < 0.3:
		arc.OutcomeAssessment = OutcomeUnsuccessful
	default:
		arc.OutcomeAssessment = OutcomeOngoing
	}

	return arc
}

func sortedGroupKeys(groups map[string][]fragment.Fragment) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
