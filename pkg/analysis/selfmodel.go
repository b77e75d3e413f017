package analysis

import (
	"log/slog"
	"sort"
	"time"

	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/scoring"
)

// SelfModelConfig tunes the self-narrative build.
type SelfModelConfig struct {
	// SampleInterval controls growth trajectory sampling: every Nth fragment
	// in chronological order becomes a snapshot. Default 10.
	SampleInterval int

	// Logger receives the small-batch warning. Defaults to slog.Default().
	Logger *slog.Logger
}

// SelfModelInputs carries previously derived artifacts the builder may fold
// in when available. The builder runs fine on raw fragments alone.
type SelfModelInputs struct {
	Chains     []CausalChain
	Milestones []MilestoneEvent
}

// Below this many fragments the model is built anyway but flagged as thin.
const selfModelRecommendedMin = 10

// A tag must average at least this confidence to count as a confidence
// domain.
const confidenceDomainFloor = 0.7

const identityThemeLimit = 5

// Learning style categories and their keyword markers.
var learningStyleKeywords = map[string][]string{
	"experimental": {"tried", "experimented", "tested"},
	"reflective":   {"realized", "reflected", "reviewed"},
	"social":       {"asked", "discussed", "feedback"},
	"iterative":    {"improved", "refined", "iterated"},
}

var (
	relationshipKeywords = []string{"user", "relationship", "trust", "collaborat"}
	decisionKeywords     = []string{"decided", "chose", "opted", "selected"}
	aspirationKeywords   = []string{"want", "hope", "aspire", "aim to", "plan to"}
	fearKeywords         = []string{"afraid", "fear", "worried", "anxious", "risk"}
)

// BuildSelfNarrative aggregates the whole fragment set into a fresh
// coherence-scored self model. The model is rebuilt wholesale on every call.
// Narrative coherence combines mean pairwise tag similarity across all
// fragment pairs (O(n^2); batch size is capped by the caller) with confidence
// stability.
func BuildSelfNarrative(frags []fragment.Fragment, cfg SelfModelConfig, inputs SelfModelInputs) *SelfNarrativeModel {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	model := &SelfNarrativeModel{
		CompetencyMap:     make(map[string]float64),
		ValueSystem:       make(map[string]float64),
		LearningStyle:     make(map[string]int),
		EmotionalBaseline: make(map[string]float64),
		ConfidenceDomains: make(map[string]float64),
		FragmentCount:     len(frags),
		BuiltAt:           time.Now(),
	}
	if len(frags) == 0 {
		return model
	}
	if len(frags) < selfModelRecommendedMin {
		cfg.Logger.Warn("building self-narrative model from a thin batch",
			"fragments", len(frags), "recommended", selfModelRecommendedMin)
	}

	sorted := fragment.SortByTime(frags)

	tagConfSum := make(map[string]float64)
	tagCount := make(map[string]int)
	emotionConfSum := make(map[string]float64)
	emotionCount := make(map[string]int)
	confidences := make([]float64, len(sorted))

	for i, f := range sorted {
		confidences[i] = f.ConfidenceScore
		for _, tag := range f.SymbolicTags {
			tagConfSum[tag] += f.ConfidenceScore
			tagCount[tag]++
			model.ValueSystem[tag] += f.ConfidenceScore
		}
		label := f.ValenceLabel()
		emotionConfSum[label] += f.ConfidenceScore
		emotionCount[label]++

		if i%cfg.SampleInterval == 0 {
			model.GrowthTrajectory = append(model.GrowthTrajectory, GrowthSnapshot{
				Timestamp:  f.CreatedAt,
				Confidence: f.ConfidenceScore,
				TopTags:    topTags(f.SymbolicTags, 3),
			})
		}

		content := f.Content
		if scoring.ContainsAny(content, relationshipKeywords) {
			model.RelationshipPatterns = append(model.RelationshipPatterns, snippet(content))
		}
		if scoring.ContainsAny(content, decisionKeywords) {
			model.DecisionPatterns = append(model.DecisionPatterns, snippet(content))
		}
		if scoring.ContainsAny(content, aspirationKeywords) {
			model.AspirationModel = append(model.AspirationModel, snippet(content))
		}
		if scoring.ContainsAny(content, fearKeywords) {
			model.FearPatterns = append(model.FearPatterns, snippet(content))
		}
		for style, keywords := range learningStyleKeywords {
			if scoring.ContainsAny(content, keywords) {
				model.LearningStyle[style]++
			}
		}
	}

	for tag, sum := range tagConfSum {
		avg := sum / float64(tagCount[tag])
		model.CompetencyMap[tag] = avg
		if avg >= confidenceDomainFloor {
			model.ConfidenceDomains[tag] = avg
		}
	}
	for label, sum := range emotionConfSum {
		model.EmotionalBaseline[label] = sum / float64(emotionCount[label])
	}
	model.IdentityThemes = dominantTags(tagCount, identityThemeLimit)

	foldInputs(model, inputs)

	tagConsistency := meanPairwiseTagSimilarity(sorted)
	confStability := 1 - scoring.Variance(confidences)
	if confStability < 0 {
		confStability = 0
	}
	model.NarrativeCoherence = (tagConsistency + confStability) / 2

	return model
}

// foldInputs enriches the model with previously derived artifacts. Milestone
// competency impacts raise the competency map where demonstrated impact beats
// the averaged confidence; goal connections from goal-achievement chains join
// the aspiration model.
func foldInputs(model *SelfNarrativeModel, inputs SelfModelInputs) {
	for _, m := range inputs.Milestones {
		for competency, impact := range m.CompetencyImpact {
			if impact > model.CompetencyMap[competency] {
				model.CompetencyMap[competency] = impact
			}
		}
	}

	seen := make(map[string]bool, len(model.AspirationModel))
	for _, a := range model.AspirationModel {
		seen[a] = true
	}
	for _, chain := range inputs.Chains {
		if chain.ChainType != ChainGoalAchievement {
			continue
		}
		for _, goal := range chain.GoalConnections {
			if !seen[goal] {
				seen[goal] = true
				model.AspirationModel = append(model.AspirationModel, goal)
			}
		}
	}
}

// meanPairwiseTagSimilarity averages tag similarity over every fragment pair.
// A single fragment is trivially consistent.
func meanPairwiseTagSimilarity(frags []fragment.Fragment) float64 {
	if len(frags) < 2 {
		return 1
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(frags); i++ {
		for j := i + 1; j < len(frags); j++ {
			sum += scoring.TagSimilarity(frags[i].SymbolicTags, frags[j].SymbolicTags)
			pairs++
		}
	}
	return sum / float64(pairs)
}

func topTags(tags []string, limit int) []string {
	if len(tags) <= limit {
		return append([]string(nil), tags...)
	}
	return append([]string(nil), tags[:limit]...)
}

// dominantTags returns the most frequent tags, ties broken alphabetically.
func dominantTags(counts map[string]int, limit int) []string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

func snippet(content string) string {
	if len(content) > 120 {
		return content[:120] + "..."
	}
	return content
}
