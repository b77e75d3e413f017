package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dan-solli/retrospect/pkg/fragment"
	"github.com/dan-solli/retrospect/pkg/scoring"
)

// Peak moments are fragments at or above this share of the segment's maximum
// intensity.
const peakIntensityRatio = 0.8

// MapEmotionalTrajectories segments the fragments into emotionally continuous
// runs and characterizes each one. A new segment starts whenever the raw
// valence changes from the previous fragment's and both are non-empty;
// fragments with no recorded valence never force a split and appear inside a
// run with the "neutral" label. Segments shorter than two fragments are
// discarded.
func MapEmotionalTrajectories(frags []fragment.Fragment) []EmotionalTrajectory {
	if len(frags) == 0 {
		return nil
	}

	sorted := fragment.SortByTime(frags)

	var trajectories []EmotionalTrajectory
	segStart := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && !splitsSegment(sorted[i-1], sorted[i]) {
			continue
		}
		if seg := sorted[segStart:i]; len(seg) >= 2 {
			var entered *fragment.Fragment
			if segStart > 0 {
				entered = &sorted[segStart-1]
			}
			trajectories = append(trajectories, buildTrajectory(seg, entered))
		}
		segStart = i
	}

	return trajectories
}

// splitsSegment reports whether a new segment starts at cur: the raw valence
// changed and both sides carry one.
func splitsSegment(prev, cur fragment.Fragment) bool {
	return prev.EmotionalValence != "" &&
		cur.EmotionalValence != "" &&
		prev.EmotionalValence != cur.EmotionalValence
}

// buildTrajectory characterizes one segment. entered is the fragment
// immediately before the segment, if any; the transition that opened the
// segment belongs to it, which is where negative -> positive recoveries show
// up (labels cannot flip between two adjacent members of the same run).
func buildTrajectory(seg []fragment.Fragment, entered *fragment.Fragment) EmotionalTrajectory {
	traj := EmotionalTrajectory{
		ID:               uuid.New().String(),
		FragmentSequence: make([]string, len(seg)),
		EmotionalStates:  make([]string, len(seg)),
		IntensityScores:  make([]float64, len(seg)),
		CreatedAt:        time.Now(),
	}

	maxIntensity := 0.0
	scores := make([]float64, len(seg))
	for i, f := range seg {
		traj.FragmentSequence[i] = f.ID
		traj.EmotionalStates[i] = f.ValenceLabel()
		traj.IntensityScores[i] = f.ConfidenceScore
		scores[i] = scoring.ValenceScore(f.ValenceLabel())
		if f.ConfidenceScore > maxIntensity {
			maxIntensity = f.ConfidenceScore
		}
	}
	traj.Trend = scoring.ClassifyTrend(scores)

	for i, f := range seg {
		if f.ConfidenceScore >= peakIntensityRatio*maxIntensity {
			traj.PeakMoments = append(traj.PeakMoments, f.ID)
		}
		if scoring.ContainsAny(f.Content, scoring.GrowthKeywords) {
			traj.GrowthIndicators = append(traj.GrowthIndicators, f.ID)
		}

		var prevLabel string
		if i == 0 {
			if entered == nil {
				continue
			}
			prevLabel = entered.ValenceLabel()
		} else {
			prevLabel = traj.EmotionalStates[i-1]
		}
		recordTransition(&traj, prevLabel, traj.EmotionalStates[i], f.CreatedAt)
	}

	return traj
}

func recordTransition(traj *EmotionalTrajectory, prev, cur string, at time.Time) {
	if prev == cur {
		return
	}
	trigger := fmt.Sprintf("transition from %s to %s at %s",
		prev, cur, at.Format(time.RFC3339))
	traj.TransitionTriggers = append(traj.TransitionTriggers, trigger)

	// Deliberately shallow: any trigger mentioning both poles counts as a
	// recovery, whichever direction it describes.
	if strings.Contains(trigger, "negative") && strings.Contains(trigger, "positive") {
		traj.RecoveryPatterns = append(traj.RecoveryPatterns, trigger)
	}
}

// OverallEmotionalTrend classifies the whole batch as positive, negative,
// volatile, or stable from the signed valence scores of every fragment.
func OverallEmotionalTrend(frags []fragment.Fragment) string {
	scores := make([]float64, len(frags))
	for i, f := range frags {
		scores[i] = scoring.ValenceScore(f.ValenceLabel())
	}
	return scoring.ClassifyTrend(scores)
}
