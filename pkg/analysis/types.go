// Package analysis derives higher-order structure from chronologically
// ordered memory fragments: causal chains, narrative arcs, emotional
// trajectories, milestone events, goal pursuit arcs, and a coherence-scored
// self-narrative model. Every analyzer is a pure function of its fragment
// batch plus configuration; artifacts are immutable once built and carry
// freshly generated ids on every run.
package analysis

import "time"

// ChainType classifies what kind of cause-and-effect story a chain tells.
type ChainType string

const (
	ChainProblemSolving       ChainType = "problem_solving"
	ChainLearning             ChainType = "learning"
	ChainGoalAchievement      ChainType = "goal_achievement"
	ChainRelationshipBuilding ChainType = "relationship_building"
	ChainGeneral              ChainType = "general"
)

// CausalChain is an ordered sequence of fragments inferred to be
// cause-and-effect linked. Sequence length is always >= 2 and strictly
// increasing in creation time.
type CausalChain struct {
	ID                  string        `json:"chain_id"`
	RootCause           string        `json:"root_cause"`
	Sequence            []string      `json:"causal_sequence"`
	ChainType           ChainType     `json:"chain_type"`
	Strength            float64       `json:"strength"`
	TimeSpan            time.Duration `json:"time_span"`
	ResolutionFragment  string        `json:"resolution_fragment,omitempty"`
	CausalMechanisms    []string      `json:"causal_mechanisms,omitempty"`
	BranchPoints        []string      `json:"branch_points,omitempty"`
	ConfidenceEvolution []float64     `json:"confidence_evolution,omitempty"`
	GoalConnections     []string      `json:"goal_connections,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
}

// Resolution status values for narrative arcs.
const (
	ResolutionResolved = "resolved"
	ResolutionOngoing  = "ongoing"
)

// NarrativeArc is a conflict -> climax -> resolution shape detected across a
// themed fragment group.
type NarrativeArc struct {
	ID                  string    `json:"arc_id"`
	Title               string    `json:"title"`
	Fragments           []string  `json:"fragments"`
	KeyMoments          []string  `json:"key_moments"`
	Themes              []string  `json:"themes"`
	EmotionalTrajectory []float64 `json:"emotional_trajectory"`
	ResolutionStatus    string    `json:"resolution_status"`
	Significance        float64   `json:"significance_score"`
}

// EmotionalTrajectory is an emotionally continuous run of fragments with its
// intensity profile and notable moments.
type EmotionalTrajectory struct {
	ID                 string    `json:"trajectory_id"`
	FragmentSequence   []string  `json:"fragment_sequence"`
	EmotionalStates    []string  `json:"emotional_states"`
	IntensityScores    []float64 `json:"intensity_scores"`
	TransitionTriggers []string  `json:"transition_triggers,omitempty"`
	PeakMoments        []string  `json:"peak_moments,omitempty"`
	RecoveryPatterns   []string  `json:"recovery_patterns,omitempty"`
	GrowthIndicators   []string  `json:"growth_indicators,omitempty"`
	Trend              string    `json:"trend"`
	CreatedAt          time.Time `json:"created_at"`
}

// MilestoneType classifies an individually significant fragment.
type MilestoneType string

const (
	MilestoneBreakthrough    MilestoneType = "breakthrough"
	MilestoneFailureLearning MilestoneType = "failure_learning"
	MilestoneSkill           MilestoneType = "skill_acquisition"
	MilestoneRelationship    MilestoneType = "relationship_milestone"
	MilestoneGeneral         MilestoneType = "general"
)

// MilestoneEvent flags a single fragment judged individually significant,
// with its context window and competency impact.
type MilestoneEvent struct {
	ID               string             `json:"milestone_id"`
	FragmentID       string             `json:"fragment_id"`
	MilestoneType    MilestoneType      `json:"milestone_type"`
	Significance     float64            `json:"significance_score"`
	Prerequisites    []string           `json:"prerequisites,omitempty"`
	Consequences     []string           `json:"consequences,omitempty"`
	LearningSummary  string             `json:"learning_summary"`
	CompetencyImpact map[string]float64 `json:"competency_impact,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// GoalArcType characterizes how a goal pursuit unfolded.
type GoalArcType string

const (
	GoalAchievement GoalArcType = "achievement"
	GoalStruggle    GoalArcType = "struggle"
	GoalAbandonment GoalArcType = "abandonment"
	GoalEvolution   GoalArcType = "evolution"
)

// Outcome assessments for a goal arc. Computed independently from the arc
// type; the two heuristics threshold the same confidence sequence and may
// disagree.
const (
	OutcomeSuccessful   = "successful"
	OutcomeUnsuccessful = "unsuccessful"
	OutcomeOngoing      = "ongoing"
)

// ProgressMarker is a timestamped confidence observation within a goal arc,
// flagged where confidence was high or jumped sharply.
type ProgressMarker struct {
	FragmentID string    `json:"fragment_id"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Delta      float64   `json:"delta"`
}

// GoalMemoryArc is the trajectory of fragments associated with one goal.
type GoalMemoryArc struct {
	ID                  string             `json:"arc_id"`
	GoalID              string             `json:"goal_id"`
	ArcType             GoalArcType        `json:"arc_type"`
	MemorySequence      []string           `json:"memory_sequence"`
	ProgressMarkers     []ProgressMarker   `json:"progress_markers,omitempty"`
	StrategyEvolution   []string           `json:"strategy_evolution,omitempty"`
	ObstaclePatterns    []string           `json:"obstacle_patterns,omitempty"`
	BreakthroughMoments []string           `json:"breakthrough_moments,omitempty"`
	LearningMilestones  []string           `json:"learning_milestones,omitempty"`
	EmotionalJourney    map[string]float64 `json:"emotional_journey,omitempty"`
	OutcomeAssessment   string             `json:"outcome_assessment"`
}

// GrowthSnapshot samples the agent's state at one point in the timeline.
type GrowthSnapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	TopTags    []string  `json:"top_tags,omitempty"`
}

// SelfNarrativeModel aggregates the whole fragment set into an identity,
// competency, and value model with a coherence score. It is rebuilt wholesale
// on each call, never mutated incrementally.
type SelfNarrativeModel struct {
	IdentityThemes       []string           `json:"identity_themes,omitempty"`
	CompetencyMap        map[string]float64 `json:"competency_map,omitempty"`
	GrowthTrajectory     []GrowthSnapshot   `json:"growth_trajectory,omitempty"`
	ValueSystem          map[string]float64 `json:"value_system,omitempty"`
	RelationshipPatterns []string           `json:"relationship_patterns,omitempty"`
	DecisionPatterns     []string           `json:"decision_patterns,omitempty"`
	LearningStyle        map[string]int     `json:"learning_style,omitempty"`
	EmotionalBaseline    map[string]float64 `json:"emotional_baseline,omitempty"`
	AspirationModel      []string           `json:"aspiration_model,omitempty"`
	FearPatterns         []string           `json:"fear_patterns,omitempty"`
	ConfidenceDomains    map[string]float64 `json:"confidence_domains,omitempty"`
	NarrativeCoherence   float64            `json:"narrative_coherence"`
	FragmentCount        int                `json:"fragment_count"`
	BuiltAt              time.Time          `json:"built_at"`
}
