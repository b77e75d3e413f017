package retrospect

import (
	"github.com/dan-solli/retrospect/pkg/analysis"
	"github.com/dan-solli/retrospect/pkg/fragment"
)

// Type re-exports for caller convenience

// Fragment is re-exported from fragment package
type Fragment = fragment.Fragment

// CausalChain is re-exported from analysis package
type CausalChain = analysis.CausalChain

// ChainType is re-exported from analysis package
type ChainType = analysis.ChainType

// MilestoneType is re-exported from analysis package
type MilestoneType = analysis.MilestoneType

// NarrativeArc is re-exported from analysis package
type NarrativeArc = analysis.NarrativeArc

// EmotionalTrajectory is re-exported from analysis package
type EmotionalTrajectory = analysis.EmotionalTrajectory

// MilestoneEvent is re-exported from analysis package
type MilestoneEvent = analysis.MilestoneEvent

// GoalMemoryArc is re-exported from analysis package
type GoalMemoryArc = analysis.GoalMemoryArc

// SelfNarrativeModel is re-exported from analysis package
type SelfNarrativeModel = analysis.SelfNarrativeModel

// Chain type constants re-exported from analysis package
const (
	ChainProblemSolving       = analysis.ChainProblemSolving
	ChainLearning             = analysis.ChainLearning
	ChainGoalAchievement      = analysis.ChainGoalAchievement
	ChainRelationshipBuilding = analysis.ChainRelationshipBuilding
	ChainGeneral              = analysis.ChainGeneral
)

// Milestone type constants re-exported from analysis package
const (
	MilestoneBreakthrough    = analysis.MilestoneBreakthrough
	MilestoneFailureLearning = analysis.MilestoneFailureLearning
	MilestoneSkill           = analysis.MilestoneSkill
	MilestoneRelationship    = analysis.MilestoneRelationship
	MilestoneGeneral         = analysis.MilestoneGeneral
)
