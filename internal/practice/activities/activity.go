package activities

import (
	"strconv"
	"strings"
	"time"
)

// ActivityDefinition describes one trackable activity: which metrics are
// recorded for it, whether it is performed in sets, and whether its metric
// values can be divided into splits (e.g. left/right hand)
type ActivityDefinition struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	HasSets               bool               `json:"hasSets"`
	HasSplits             bool               `json:"hasSplits"`
	MetricsMultiplicative bool               `json:"metricsMultiplicative"`
	Metrics               []MetricDefinition `json:"metrics"`
	Splits                []SplitDefinition  `json:"splits,omitempty"`
	CreatedAt             time.Time          `json:"createdAt"`
}

type MetricDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
	// Multiplicative: nil means true, i.e. the metric takes part
	// in the product metric unless explicitly disabled
	Multiplicative *bool  `json:"isMultiplicative,omitempty"`
	TopSetMetric   bool   `json:"isTopSetMetric,omitempty"`
	SplitID        string `json:"splitId,omitempty"`
}

func (md MetricDefinition) IsMultiplicative() bool {
	return md.Multiplicative == nil || *md.Multiplicative
}

type SplitDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivityInstance is one occurrence of performing an activity within a
// practice session. It carries either sets or a flat list of metric values,
// depending on the activity definition
type ActivityInstance struct {
	ActivityID  string        `json:"activityId"`
	SessionID   string        `json:"sessionId"`
	SessionName string        `json:"sessionName"`
	SessionDate time.Time     `json:"sessionDate"`
	HasSets     bool          `json:"hasSets"`
	Sets        []Set         `json:"sets,omitempty"`
	Metrics     []MetricValue `json:"metrics,omitempty"`
}

type Set struct {
	Metrics []MetricValue `json:"metrics"`
}

// MetricValue holds a raw recorded value. Values come in as strings and are
// parsed on demand - an absent or unparsable value simply means "no value"
type MetricValue struct {
	MetricID string `json:"metricId"`
	Value    string `json:"value"`
	SplitID  string `json:"splitId,omitempty"`
}

// Float parses the raw value. The second return value is false for
// absent or unparsable values - that is never an error condition
func (mv MetricValue) Float() (float64, bool) {
	raw := strings.TrimSpace(mv.Value)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// RankingMetric gives the metric which decides the top set: the one
// flagged as such, or the first defined metric when none is flagged
func (ad ActivityDefinition) RankingMetric() (MetricDefinition, bool) {
	for _, md := range ad.Metrics {
		if md.TopSetMetric {
			return md, true
		}
	}
	if len(ad.Metrics) > 0 {
		return ad.Metrics[0], true
	}
	return MetricDefinition{}, false
}

// MultiplicativeMetrics gives all metrics taking part in the product metric
func (ad ActivityDefinition) MultiplicativeMetrics() []MetricDefinition {
	var multiplicative []MetricDefinition
	for _, md := range ad.Metrics {
		if md.IsMultiplicative() {
			multiplicative = append(multiplicative, md)
		}
	}
	return multiplicative
}

// Metric finds a metric definition by id
func (ad ActivityDefinition) Metric(metricID string) (MetricDefinition, bool) {
	for _, md := range ad.Metrics {
		if md.ID == metricID {
			return md, true
		}
	}
	return MetricDefinition{}, false
}
