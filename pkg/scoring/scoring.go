// Package scoring provides the pure scoring primitives shared by every
// analyzer: tag-set similarity, causal link strength, milestone significance,
// and emotional trend classification. All functions are deterministic and
// side-effect free.
package scoring

import (
	"strings"
	"time"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

// CausalIndicators are the shallow keyword markers that a later fragment
// describes an effect of an earlier one.
var CausalIndicators = []string{"because", "led to", "caused", "triggered", "resulted in"}

// GrowthKeywords mark content describing personal growth.
var GrowthKeywords = []string{"learned", "improved", "grew", "developed", "mastered"}

// LearningKeywords is the fixed list used for milestone keyword density.
var LearningKeywords = []string{"breakthrough", "realized", "learned", "mastered", "achieved", "succeeded", "overcame"}

// Weights for the causal strength composition. Temporal proximity and tag
// overlap dominate; importance correlation and the keyword bonus split the
// rest. They sum to 1.0 with the bonus applied.
const (
	causalTemporalWeight   = 0.3
	causalTagWeight        = 0.3
	causalImportanceWeight = 0.2
	causalKeywordBonus     = 0.2
)

// TagSimilarity computes the Jaccard similarity of two tag sets.
// Symmetric: TagSimilarity(a, b) == TagSimilarity(b, a).
// Returns 0 when both sets are empty.
func TagSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, tag := range a {
		setA[tag] = true
	}

	union := make(map[string]bool, len(a)+len(b))
	for tag := range setA {
		union[tag] = true
	}

	intersection := 0
	for _, tag := range b {
		if !union[tag] {
			union[tag] = true
		} else if setA[tag] {
			setA[tag] = false // count each shared tag once
			intersection++
		}
	}

	return float64(intersection) / float64(len(union))
}

// CausalStrength scores the likelihood that effect follows causally from
// cause, given the detection window. Composition:
//   - 0.3 x temporal proximity: max(0, 1 - dt/window)
//   - 0.3 x tag overlap (Jaccard)
//   - 0.2 x min(confidence) as an importance correlation proxy
//   - +0.2 flat bonus when the effect's content carries a causal indicator
//
// The result is clipped to [0, 1].
func CausalStrength(cause, effect fragment.Fragment, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}

	dt := effect.CreatedAt.Sub(cause.CreatedAt)
	proximity := 1.0 - dt.Seconds()/window.Seconds()
	if proximity < 0 {
		proximity = 0
	}

	minConf := cause.ConfidenceScore
	if effect.ConfidenceScore < minConf {
		minConf = effect.ConfidenceScore
	}

	strength := causalTemporalWeight*proximity +
		causalTagWeight*TagSimilarity(cause.SymbolicTags, effect.SymbolicTags) +
		causalImportanceWeight*minConf

	if ContainsAny(effect.Content, CausalIndicators) {
		strength += causalKeywordBonus
	}

	return Clip01(strength)
}

// MilestoneSignificance combines a fragment's own confidence, its uniqueness
// among peers, and its learning keyword density into a [0,1] score.
func MilestoneSignificance(confidence, uniqueness, keywordDensity float64) float64 {
	return Clip01(0.4*confidence + 0.3*uniqueness + 0.3*keywordDensity)
}

// LearningKeywordDensity returns the fraction of LearningKeywords present in
// content. Case-insensitive substring matching, not NLP.
func LearningKeywordDensity(content string) float64 {
	lower := strings.ToLower(content)
	found := 0
	for _, kw := range LearningKeywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	return float64(found) / float64(len(LearningKeywords))
}

// ContainsAny reports whether content contains any of the given keywords,
// case-insensitively.
func ContainsAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ValenceScore maps an emotion label to a signed score: positive +1,
// negative -1, anything else 0.
func ValenceScore(label string) float64 {
	switch label {
	case string(fragment.ValencePositive):
		return 1
	case string(fragment.ValenceNegative):
		return -1
	default:
		return 0
	}
}

// Trend labels produced by ClassifyTrend.
const (
	TrendPositive = "positive"
	TrendNegative = "negative"
	TrendVolatile = "volatile"
	TrendStable   = "stable"
)

// ClassifyTrend characterizes a sequence of signed valence scores.
// A sequence spanning both poles is volatile regardless of its mean;
// otherwise the mean sign decides, with a dead zone around zero.
func ClassifyTrend(scores []float64) string {
	if len(scores) == 0 {
		return TrendStable
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore-minScore >= 2 {
		return TrendVolatile
	}

	mean := Mean(scores)
	switch {
	case mean > 0.2:
		return TrendPositive
	case mean < -0.2:
		return TrendNegative
	default:
		return TrendStable
	}
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values, or 0 for fewer than
// two values.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// Clip01 clamps v to the [0, 1] interval.
func Clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
