package goals

import (
	"sort"
)

// TimeRollup accumulates recorded seconds per goal per calendar day.
// With rollUpEnabled, each goal's time is attributed to its topmost
// ancestor instead of the goal itself.
//
// The parent chain walk keeps a visited set: goal data is expected to
// be a tree, but a cycle slipping in must not hang the call. On a
// cycle the time goes to the last ancestor reached before closing it.
func TimeRollup(goalList []Goal, rollUpEnabled bool, mode DurationMode) map[string]map[string]int64 {
	goalByID := make(map[string]*Goal, len(goalList))
	for i := range goalList {
		goalByID[goalList[i].ID] = &goalList[i]
	}

	result := make(map[string]map[string]int64)
	for i := range goalList {
		goal := &goalList[i]

		target := goal
		if rollUpEnabled {
			target = topAncestor(goal, goalByID)
		}

		for _, entry := range goal.Durations(mode) {
			dayTotals, ok := result[target.ID]
			if !ok {
				dayTotals = make(map[string]int64)
				result[target.ID] = dayTotals
			}
			dayTotals[DayKey(entry.Date)] += entry.DurationSeconds
		}
	}

	return result
}

func topAncestor(goal *Goal, goalByID map[string]*Goal) *Goal {
	visited := map[string]bool{goal.ID: true}
	current := goal
	for current.ParentID != "" {
		parent, ok := goalByID[current.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		current = parent
	}
	return current
}

// TimeDataset is one stacked chart layer: the accumulated seconds of
// one goal (or one rolled up subtree) per calendar day.
type TimeDataset struct {
	GoalID   string           `json:"goalId"`
	GoalName string           `json:"goalName"`
	GoalType GoalType         `json:"goalType"`
	Seconds  map[string]int64 `json:"seconds"`
}

// TimeDatasets runs the rollup and shapes the result for rendering:
// only goals with some accumulated time are included, ordered by the
// type hierarchy so that ancestor types form the lower stack layers.
func TimeDatasets(goalList []Goal, rollUpEnabled bool, mode DurationMode) []TimeDataset {
	accumulated := TimeRollup(goalList, rollUpEnabled, mode)

	datasets := make([]TimeDataset, 0, len(accumulated))
	for _, goal := range goalList {
		dayTotals, ok := accumulated[goal.ID]
		if !ok {
			continue
		}
		var hasTime bool
		for _, seconds := range dayTotals {
			if seconds != 0 {
				hasTime = true
				break
			}
		}
		if !hasTime {
			continue
		}
		datasets = append(datasets, TimeDataset{
			GoalID:   goal.ID,
			GoalName: goal.Name,
			GoalType: goal.Type,
			Seconds:  dayTotals,
		})
	}

	sort.SliceStable(datasets, func(i, j int) bool {
		return TypeOrder(datasets[i].GoalType) < TypeOrder(datasets[j].GoalType)
	})

	return datasets
}
