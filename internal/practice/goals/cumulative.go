package goals

import (
	"sort"
	"time"
)

// TypeCumulative is one stacked layer of the completions chart: the
// running completion count of one goal type, parallel to the dates of
// the enclosing CumulativeResult. CompletedNames carries, per date,
// the goals completed on exactly that day, for tooltips.
type TypeCumulative struct {
	Type           GoalType   `json:"type"`
	Counts         []int      `json:"counts"`
	CompletedNames [][]string `json:"completedNames"`
}

type CumulativeResult struct {
	Dates   []time.Time      `json:"dates"`
	PerType []TypeCumulative `json:"perType"`
}

// CompletionCumulative turns discrete goal completions into per-type
// running counts: on each completion date every type keeps its total
// so far, types completed that day increment theirs. Types that never
// complete anything are left out; the rest stack in hierarchy order,
// top-level types at the base.
func CompletionCumulative(goalList []Goal) CumulativeResult {
	type dayCompletions struct {
		count int
		names []string
	}

	completionsByDay := make(map[string]map[GoalType]*dayCompletions)
	for _, goal := range goalList {
		if !goal.Completed || goal.CompletedAt == nil {
			continue
		}
		day := DayKey(*goal.CompletedAt)
		perType, ok := completionsByDay[day]
		if !ok {
			perType = make(map[GoalType]*dayCompletions)
			completionsByDay[day] = perType
		}
		completions, ok := perType[goal.Type]
		if !ok {
			completions = &dayCompletions{}
			perType[goal.Type] = completions
		}
		completions.count++
		completions.names = append(completions.names, goal.Name)
	}

	if len(completionsByDay) == 0 {
		return CumulativeResult{Dates: []time.Time{}, PerType: []TypeCumulative{}}
	}

	dayKeys := make([]string, 0, len(completionsByDay))
	for day := range completionsByDay {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	dates := make([]time.Time, 0, len(dayKeys)+1)
	for _, day := range dayKeys {
		// day keys come from DayKey, parsing cannot fail
		date, _ := time.Parse(dayKeyLayout, day)
		dates = append(dates, date)
	}

	// a single completion date gets a zero row one day earlier, so a
	// stacked area chart shows a ramp instead of a lone point
	syntheticRows := 0
	if len(dates) == 1 {
		dates = append([]time.Time{dates[0].AddDate(0, 0, -1)}, dates...)
		syntheticRows = 1
	}

	running := make(map[GoalType]int)
	perTypeCounts := make(map[GoalType][]int)
	perTypeNames := make(map[GoalType][][]string)
	for _, goalType := range TypeHierarchy {
		perTypeCounts[goalType] = make([]int, syntheticRows, len(dates))
		perTypeNames[goalType] = make([][]string, syntheticRows, len(dates))
	}

	for _, day := range dayKeys {
		for goalType, completions := range completionsByDay[day] {
			running[goalType] += completions.count
		}
		for _, goalType := range TypeHierarchy {
			perTypeCounts[goalType] = append(perTypeCounts[goalType], running[goalType])
			var names []string
			if completions, ok := completionsByDay[day][goalType]; ok {
				names = completions.names
			}
			perTypeNames[goalType] = append(perTypeNames[goalType], names)
		}
	}

	result := CumulativeResult{
		Dates:   dates,
		PerType: []TypeCumulative{},
	}
	for _, goalType := range TypeHierarchy {
		if running[goalType] == 0 {
			continue
		}
		result.PerType = append(result.PerType, TypeCumulative{
			Type:           goalType,
			Counts:         perTypeCounts[goalType],
			CompletedNames: perTypeNames[goalType],
		})
	}

	return result
}
