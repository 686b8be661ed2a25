package projection

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/practicedash/internal/practice/activities"
)

// ProductMetricID is the pseudo metric id selecting the product of all
// multiplicative metrics instead of a single recorded metric.
const ProductMetricID = "product"

// SplitAll selects the aggregate (unsplit) readings of a split activity.
const SplitAll = "all"

type Mode string

const (
	ModeTopSet  Mode = "top"
	ModeAverage Mode = "average"
)

type Params struct {
	MetricID string `json:"metricId"`
	Mode     Mode   `json:"mode"`
	Split    string `json:"split"`
}

// Point is one chart point. SetNumber is set (1-based) only for top set
// aggregation; Aggregation and SessionName are tooltip metadata.
type Point struct {
	Timestamp   time.Time `json:"timestamp"`
	Value       float64   `json:"value"`
	SessionName string    `json:"sessionName"`
	Aggregation string    `json:"aggregation,omitempty"`
	SetNumber   *int      `json:"setNumber,omitempty"`
}

type Series struct {
	Points []Point `json:"points"`
	Label  string  `json:"label"`
	Unit   string  `json:"unit,omitempty"`
}

// IncludeSplit decides whether a recorded metric value belongs to the
// currently selected split. For split activities, SplitAll means only the
// unsplit readings; a named split means only its own readings. Activities
// without splits only ever contribute unsplit readings.
func IncludeSplit(mv activities.MetricValue, hasSplits bool, selectedSplit string) bool {
	if !hasSplits {
		return mv.SplitID == ""
	}
	if selectedSplit == SplitAll || selectedSplit == "" {
		return mv.SplitID == ""
	}
	return mv.SplitID == selectedSplit
}

// metricValue looks a single metric up in one set's (or one flat instance's)
// values, applying the split filter. False means no usable value.
func metricValue(source []activities.MetricValue, metricID string, hasSplits bool, selectedSplit string) (float64, bool) {
	for _, mv := range source {
		if mv.MetricID != metricID {
			continue
		}
		if !IncludeSplit(mv, hasSplits, selectedSplit) {
			continue
		}
		return mv.Float()
	}
	return 0, false
}

// Product computes the product of all multiplicative metrics over one
// source. It is all or nothing: a single missing or unparsable factor
// makes the whole product undefined.
func Product(
	source []activities.MetricValue,
	multiplicative []activities.MetricDefinition,
	hasSplits bool,
	selectedSplit string,
) (float64, bool) {
	if len(multiplicative) == 0 {
		return 0, false
	}
	result := float64(1)
	for _, md := range multiplicative {
		val, ok := metricValue(source, md.ID, hasSplits, selectedSplit)
		if !ok {
			return 0, false
		}
		result *= val
	}
	return result, true
}

// targetValue resolves the selected metric (or the product pseudo metric)
// over one source of metric values.
func targetValue(
	source []activities.MetricValue,
	activity *activities.ActivityDefinition,
	params Params,
) (float64, bool) {
	if params.MetricID == ProductMetricID {
		return Product(source, activity.MultiplicativeMetrics(), activity.HasSplits, params.Split)
	}
	return metricValue(source, params.MetricID, activity.HasSplits, params.Split)
}

// resolveInstance collapses one activity instance into at most one point.
// Instances without a usable value produce nothing, never an error.
func resolveInstance(
	activity *activities.ActivityDefinition,
	instance activities.ActivityInstance,
	params Params,
) (Point, bool) {
	point := Point{
		Timestamp:   instance.SessionDate,
		SessionName: instance.SessionName,
	}

	if !instance.HasSets {
		val, ok := targetValue(instance.Metrics, activity, params)
		if !ok {
			return Point{}, false
		}
		point.Value = val
		return point, true
	}

	switch params.Mode {
	case ModeAverage:
		var sum float64
		var contributing int
		for _, set := range instance.Sets {
			val, ok := targetValue(set.Metrics, activity, params)
			if !ok {
				continue
			}
			sum += val
			contributing++
		}
		if contributing == 0 {
			return Point{}, false
		}
		point.Value = round2(sum / float64(contributing))
		point.Aggregation = fmt.Sprintf("Avg of %d sets", contributing)
		return point, true
	default:
		// top set
		rankingMetric, ok := activity.RankingMetric()
		if !ok {
			return Point{}, false
		}

		winnerIndex := -1
		var winnerRank float64
		for i, set := range instance.Sets {
			rank, ok := metricValue(set.Metrics, rankingMetric.ID, activity.HasSplits, params.Split)
			if !ok {
				continue
			}
			// strictly greater: ties keep the first set encountered
			if winnerIndex == -1 || rank > winnerRank {
				winnerIndex = i
				winnerRank = rank
			}
		}
		if winnerIndex == -1 {
			return Point{}, false
		}

		val, ok := targetValue(instance.Sets[winnerIndex].Metrics, activity, params)
		if !ok {
			return Point{}, false
		}

		setNumber := winnerIndex + 1
		point.Value = val
		point.Aggregation = "Top Set"
		point.SetNumber = &setNumber
		return point, true
	}
}

// BuildSeries projects activity instances into a chronologically ordered
// chart series. Empty input gives an empty series.
func BuildSeries(
	activity *activities.ActivityDefinition,
	instances []activities.ActivityInstance,
	params Params,
) Series {
	series := Series{
		Points: []Point{},
	}

	if params.MetricID == ProductMetricID {
		series.Label = fmt.Sprintf("%s: Product", activity.Name)
	} else if metric, ok := activity.Metric(params.MetricID); ok {
		series.Label = fmt.Sprintf("%s: %s", activity.Name, metric.Name)
		series.Unit = metric.Unit
	} else {
		// unknown metric, nothing can match it
		series.Label = activity.Name
		return series
	}

	for _, instance := range instances {
		if point, ok := resolveInstance(activity, instance, params); ok {
			series.Points = append(series.Points, point)
		}
	}

	// equal timestamps keep their relative input order
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Timestamp.Before(series.Points[j].Timestamp)
	})

	return series
}

func round2(val float64) float64 {
	return math.Round(val*100) / 100
}
