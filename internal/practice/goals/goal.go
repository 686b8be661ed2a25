package goals

import (
	"time"
)

type GoalType string

const (
	UltimateGoal  GoalType = "UltimateGoal"
	LongTermGoal  GoalType = "LongTermGoal"
	MidTermGoal   GoalType = "MidTermGoal"
	ShortTermGoal GoalType = "ShortTermGoal"
	ImmediateGoal GoalType = "ImmediateGoal"
	MicroGoal     GoalType = "MicroGoal"
	NanoGoal      GoalType = "NanoGoal"
)

// TypeHierarchy orders goal types from top-level to leaf. The order
// decides stacking in charts: top-level types are the base layer.
var TypeHierarchy = []GoalType{
	UltimateGoal,
	LongTermGoal,
	MidTermGoal,
	ShortTermGoal,
	ImmediateGoal,
	MicroGoal,
	NanoGoal,
}

// TypeOrder gives the stacking rank of a goal type.
// Unknown types sort after all known ones.
func TypeOrder(goalType GoalType) int {
	for i, t := range TypeHierarchy {
		if t == goalType {
			return i
		}
	}
	return len(TypeHierarchy)
}

const dayKeyLayout = "2006-01-02"

// DayKey gives the calendar day portion of a timestamp, e.g. 2025-05-10.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

type DateDuration struct {
	Date            time.Time `json:"date"`
	DurationSeconds int64     `json:"durationSeconds"`
}

// Goal is one node of the goal tree. An empty ParentID means a
// top-level goal.
type Goal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        GoalType   `json:"type"`
	ParentID    string     `json:"parentId,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	ActivityDurationsByDate []DateDuration `json:"activityDurationsByDate,omitempty"`
	SessionDurationsByDate  []DateDuration `json:"sessionDurationsByDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type DurationMode string

const (
	// DurationModeActivity prefers per-activity recorded time,
	// falling back to session time for goals without it
	DurationModeActivity DurationMode = "activity"
	// DurationModeSession always uses session time
	DurationModeSession DurationMode = "session"
)

// Durations gives the duration entries to roll up for the given mode.
func (g Goal) Durations(mode DurationMode) []DateDuration {
	if mode == DurationModeSession {
		return g.SessionDurationsByDate
	}
	if len(g.ActivityDurationsByDate) > 0 {
		return g.ActivityDurationsByDate
	}
	return g.SessionDurationsByDate
}
