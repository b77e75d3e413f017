package analysis

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/scoring"
)

// CausalConfig tunes chain detection.
type CausalConfig struct {
	// Window is the maximum gap between the current end of a growing chain
	// and its next candidate. Measured from the last accepted element, so the
	// window slides forward as the chain extends. Default 24h.
	Window time.Duration

	// LinkThreshold is the minimum causal strength for a candidate to join a
	// chain. Default 0.5.
	LinkThreshold float64
}

func (c CausalConfig) withDefaults() CausalConfig {
	if c.Window <= 0 {
		c.Window = 24 * time.Hour
	}
	if c.LinkThreshold <= 0 {
		c.LinkThreshold = 0.5
	}
	return c
}

// DetectCausalChains finds multi-step cause -> effect sequences among the
// given fragments. Fewer than two fragments yields an empty result, never an
// error. A fragment absorbed into one chain is not reused as the root of a
// later chain, which keeps chain suffixes from surfacing as duplicates.
func DetectCausalChains(frags []fragment.Fragment, cfg CausalConfig) []CausalChain {
	if len(frags) < 2 {
		return nil
	}
	cfg = cfg.withDefaults()

	sorted := fragment.SortByTime(frags)
	used := make([]bool, len(sorted))

	var chains []CausalChain
	for i := range sorted {
		if used[i] {
			continue
		}

		seq := []int{i}
		var linkStrengths []float64
		last := i

		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			if sorted[j].CreatedAt.Sub(sorted[last].CreatedAt) > cfg.Window {
				break
			}

			strength := scoring.CausalStrength(sorted[last], sorted[j], cfg.Window)
			if strength > cfg.LinkThreshold {
				seq = append(seq, j)
				linkStrengths = append(linkStrengths, strength)
				last = j
			}
		}

		if len(seq) < 2 {
			continue
		}

		members := make([]fragment.Fragment, len(seq))
		ids := make([]string, len(seq))
		for k, idx := range seq {
			used[idx] = true
			members[k] = sorted[idx]
			ids[k] = sorted[idx].ID
		}

		chains = append(chains, CausalChain{
			ID:                 uuid.New().String(),
			RootCause:          ids[0],
			Sequence:           ids,
			ChainType:          classifyChainType(members),
			Strength:           scoring.Mean(linkStrengths),
			TimeSpan:           members[len(members)-1].CreatedAt.Sub(members[0].CreatedAt),
			ResolutionFragment: resolutionFragment(members),
			CreatedAt:          time.Now(),
		})
	}

	return chains
}

// EnhanceCausalChains runs the second traversal over already-detected chains,
// annotating per-link mechanisms, low-confidence branch points, the
// confidence evolution along the chain, and referenced goals. Chains whose
// fragments are missing from frags are passed through unchanged.
func EnhanceCausalChains(chains []CausalChain, frags []fragment.Fragment) []CausalChain {
	byID := make(map[string]fragment.Fragment, len(frags))
	for _, f := range frags {
		byID[f.ID] = f
	}

	enhanced := make([]CausalChain, len(chains))
	for i, chain := range chains {
		members := make([]fragment.Fragment, 0, len(chain.Sequence))
		complete := true
		for _, id := range chain.Sequence {
			f, ok := byID[id]
			if !ok {
				complete = false
				break
			}
			members = append(members, f)
		}
		if !complete {
			enhanced[i] = chain
			continue
		}

		chain.CausalMechanisms = make([]string, 0, len(members)-1)
		for k := 0; k+1 < len(members); k++ {
			chain.CausalMechanisms = append(chain.CausalMechanisms, inferMechanism(members[k], members[k+1]))
		}

		chain.ConfidenceEvolution = make([]float64, len(members))
		goals := make(map[string]bool)
		for k, f := range members {
			chain.ConfidenceEvolution[k] = f.ConfidenceScore
			if f.ConfidenceScore < 0.6 {
				chain.BranchPoints = append(chain.BranchPoints, f.ID)
			}
			for _, ref := range goalReferences(f) {
				if ref != goalBucketNone {
					goals[ref] = true
				}
			}
		}
		chain.GoalConnections = sortedKeys(goals)

		enhanced[i] = chain
	}

	return enhanced
}

// classifyChainType assigns a chain type from shallow keyword checks over the
// concatenated content of all chain members. First match wins.
func classifyChainType(members []fragment.Fragment) ChainType {
	var sb strings.Builder
	for _, f := range members {
		sb.WriteString(strings.ToLower(f.Content))
		sb.WriteString(" ")
	}
	content := sb.String()

	switch {
	case strings.Contains(content, "problem") || strings.Contains(content, "fix"):
		return ChainProblemSolving
	case strings.Contains(content, "learn") || strings.Contains(content, "realize"):
		return ChainLearning
	case strings.Contains(content, "goal") || strings.Contains(content, "achiev"):
		return ChainGoalAchievement
	case strings.Contains(content, "user") || strings.Contains(content, "relationship") || strings.Contains(content, "trust"):
		return ChainRelationshipBuilding
	default:
		return ChainGeneral
	}
}

// resolutionFragment returns the id of the last chain member with confidence
// above 0.7, or "" when no member qualifies.
func resolutionFragment(members []fragment.Fragment) string {
	for k := len(members) - 1; k >= 0; k-- {
		if members[k].ConfidenceScore > 0.7 {
			return members[k].ID
		}
	}
	return ""
}

// inferMechanism labels the link between two adjacent chain members from
// their tag combination.
func inferMechanism(cause, effect fragment.Fragment) string {
	causeTags := lowerTagSet(cause.SymbolicTags)
	effectTags := lowerTagSet(effect.SymbolicTags)

	switch {
	case causeTags["problem"] && effectTags["solution"]:
		return "problem_solving"
	case effectTags["learning"] || effectTags["insight"]:
		return "learning_progression"
	case effectTags["goal"] || effectTags["achievement"]:
		return "goal_progress"
	case scoring.ContainsAny(effect.Content, scoring.CausalIndicators):
		return "stated_causation"
	default:
		return "temporal_succession"
	}
}

func lowerTagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	return set
}
