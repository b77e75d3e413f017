package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

func TestRecognizeNarrativeArcs_SmallGroupsSkipped(t *testing.T) {
	frags := []fragment.Fragment{
		frag("a", 0, 0.4, "migration"),
		frag("b", time.Hour, 0.9, "migration"),
	}
	if arcs := RecognizeNarrativeArcs(frags); len(arcs) != 0 {
		t.Errorf("two-fragment theme group: got %d arcs, want 0", len(arcs))
	}
}

func TestRecognizeNarrativeArcs_ConflictInSecondHalfRejected(t *testing.T) {
	// Confidence drops after two strong entries: the minimum lands at index
	// 2, which is not in the first half of a five-fragment group, so the
	// shape guard must reject the candidate.
	confs := []float64{0.9, 0.85, 0.2, 0.3, 0.25}
	var frags []fragment.Fragment
	for i, c := range confs {
		frags = append(frags, frag(string(rune('a'+i)), time.Duration(i)*time.Hour, c, "refactor"))
	}

	if arcs := RecognizeNarrativeArcs(frags); len(arcs) != 0 {
		t.Errorf("late conflict: got %d arcs, want 0", len(arcs))
	}
}

func TestRecognizeNarrativeArcs_AcceptsConflictClimaxShape(t *testing.T) {
	confs := []float64{0.5, 0.2, 0.6, 0.9, 0.8}
	var frags []fragment.Fragment
	for i, c := range confs {
		frags = append(frags, frag(string(rune('a'+i)), time.Duration(i)*time.Hour, c, "migration"))
	}

	arcs := RecognizeNarrativeArcs(frags)
	if len(arcs) != 1 {
		t.Fatalf("got %d arcs, want 1", len(arcs))
	}
	arc := arcs[0]

	if arc.ResolutionStatus != ResolutionResolved {
		t.Errorf("final confidence 0.8: got status %q, want %q", arc.ResolutionStatus, ResolutionResolved)
	}
	if len(arc.Themes) != 1 || arc.Themes[0] != "migration" {
		t.Errorf("themes: got %v, want [migration]", arc.Themes)
	}
	if len(arc.Fragments) != 5 {
		t.Errorf("fragments: got %d, want 5", len(arc.Fragments))
	}

	// size term min(0.3, 5/10) + 0.4*(0.9-0.2) + 0.3 resolved bonus
	want := 0.3 + 0.4*0.7 + 0.3
	if math.Abs(arc.Significance-want) > 1e-9 {
		t.Errorf("significance: got %.6f, want %.6f", arc.Significance, want)
	}
	if arc.Significance < 0 || arc.Significance > 1 {
		t.Errorf("significance out of [0,1]: %.6f", arc.Significance)
	}

	// Key moments carry the conflict (b) and climax (d).
	for _, id := range []string{"b", "d"} {
		found := false
		for _, km := range arc.KeyMoments {
			if km == id {
				found = true
			}
		}
		if !found {
			t.Errorf("key moments %v missing %q", arc.KeyMoments, id)
		}
	}
}

func TestRecognizeNarrativeArcs_UntaggedGroupedAsGeneral(t *testing.T) {
	confs := []float64{0.4, 0.2, 0.9, 0.8}
	var frags []fragment.Fragment
	for i, c := range confs {
		frags = append(frags, frag(string(rune('a'+i)), time.Duration(i)*time.Hour, c))
	}

	arcs := RecognizeNarrativeArcs(frags)
	if len(arcs) != 1 {
		t.Fatalf("got %d arcs, want 1", len(arcs))
	}
	if arcs[0].Themes[0] != "general" {
		t.Errorf("untagged theme: got %q, want \"general\"", arcs[0].Themes[0])
	}
}

func TestFilterArcsBySignificance(t *testing.T) {
	arcs := []NarrativeArc{
		{ID: "low", Significance: 0.4},
		{ID: "high", Significance: 0.8},
	}
	kept := FilterArcsBySignificance(arcs, DefaultArcSignificanceThreshold)
	if len(kept) != 1 || kept[0].ID != "high" {
		t.Errorf("filter: got %v, want only the high-significance arc", kept)
	}
}
