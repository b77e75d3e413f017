package analysis

import (
	"testing"
	"time"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

func TestDetectMilestones_BreakthroughClassification(t *testing.T) {
	frags := []fragment.Fragment{
		withContent(frag("bg1", 0, 0.4, "routine"), "ordinary day of log triage"),
		withContent(frag("bg2", time.Hour, 0.4, "routine"), "more log triage"),
		withContent(frag("big", 2*time.Hour, 0.9, "planner"),
			"Major breakthrough: learned how the planner prunes branches"),
	}

	milestones := DetectMilestones(frags, MilestoneConfig{})
	if len(milestones) != 1 {
		t.Fatalf("got %d milestones, want 1", len(milestones))
	}
	m := milestones[0]

	if m.FragmentID != "big" {
		t.Errorf("fragment id: got %q, want \"big\"", m.FragmentID)
	}
	if m.MilestoneType != MilestoneBreakthrough {
		t.Errorf("type: got %q, want %q", m.MilestoneType, MilestoneBreakthrough)
	}
	if m.Significance < 0.7 || m.Significance > 1 {
		t.Errorf("significance: got %.6f, want in [0.7, 1]", m.Significance)
	}
	if m.LearningSummary == "" {
		t.Error("learning summary must be derived")
	}
}

func TestDetectMilestones_TypePriority(t *testing.T) {
	tests := []struct {
		content string
		want    MilestoneType
	}{
		{"discovered a eureka moment", MilestoneBreakthrough},
		{"failed badly but learned from the mistake", MilestoneFailureLearning},
		{"finally mastered incremental parsing", MilestoneSkill},
		{"built real trust with the user", MilestoneRelationship},
		{"a notable day", MilestoneGeneral},
	}
	for _, tt := range tests {
		if got := classifyMilestoneType(tt.content); got != tt.want {
			t.Errorf("classifyMilestoneType(%q): got %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestDetectMilestones_ContextWindow(t *testing.T) {
	day := 24 * time.Hour
	milestoneContent := "breakthrough achieved: learned, mastered, realized, succeeded, overcame the planner"

	frags := []fragment.Fragment{
		frag("far-before", 0, 0.3, "planning", "routine"), // day 0, outside +-7d of day 10
		frag("pre1", 5*day, 0.3, "planning", "routine"),
		frag("pre2", 8*day, 0.3, "planning", "routine"),
		withContent(frag("big", 10*day, 0.95, "planning", "insight"), milestoneContent),
		frag("post1", 12*day, 0.3, "planning", "routine"),
		frag("far-after", 30*day, 0.3, "planning", "routine"),
	}

	milestones := DetectMilestones(frags, MilestoneConfig{})
	if len(milestones) != 1 {
		t.Fatalf("got %d milestones, want 1", len(milestones))
	}
	m := milestones[0]

	wantPre := map[string]bool{"pre1": true, "pre2": true}
	if len(m.Prerequisites) != 2 {
		t.Fatalf("prerequisites: got %v, want pre1 and pre2", m.Prerequisites)
	}
	for _, id := range m.Prerequisites {
		if !wantPre[id] {
			t.Errorf("unexpected prerequisite %q", id)
		}
	}

	if len(m.Consequences) != 1 || m.Consequences[0] != "post1" {
		t.Errorf("consequences: got %v, want [post1]", m.Consequences)
	}
}

func TestCompetencyImpact_MonotonicInConfidence(t *testing.T) {
	low := competencyImpact(MilestoneBreakthrough, 0.4)
	high := competencyImpact(MilestoneBreakthrough, 0.8)

	if len(low) == 0 {
		t.Fatal("breakthrough must carry base competency weights")
	}
	for competency, lowImpact := range low {
		if high[competency] < lowImpact {
			t.Errorf("impact for %q decreased with confidence: %.4f -> %.4f",
				competency, lowImpact, high[competency])
		}
	}
}

func TestDetectMilestones_InsignificantFragmentsIgnored(t *testing.T) {
	frags := []fragment.Fragment{
		frag("a", 0, 0.2, "shared"),
		frag("b", time.Hour, 0.25, "shared"),
		frag("c", 2*time.Hour, 0.3, "shared"),
	}
	if got := DetectMilestones(frags, MilestoneConfig{}); len(got) != 0 {
		t.Errorf("low-signal batch: got %d milestones, want 0", len(got))
	}
}
