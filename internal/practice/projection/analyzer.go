package projection

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/practicedash/internal/practice/activities"
	"github.com/2beens/practicedash/internal/telemetry/metrics"
	"github.com/2beens/practicedash/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=projection_test

var ErrInvalidParams = errors.New("invalid projection params")

type activitiesRepo interface {
	Get(ctx context.Context, id string) (*activities.ActivityDefinition, error)
	ListInstances(ctx context.Context, params activities.InstanceParams) ([]activities.ActivityInstance, error)
}

// Analyzer loads an activity with its recorded instances and projects
// them into chart series. Computed series go through the cache.
type Analyzer struct {
	repo    activitiesRepo
	cache   *SeriesCache
	metrics *metrics.Manager
}

func NewAnalyzer(repo activitiesRepo, cache *SeriesCache, metricsManager *metrics.Manager) *Analyzer {
	return &Analyzer{
		repo:    repo,
		cache:   cache,
		metrics: metricsManager,
	}
}

func (a *Analyzer) ActivitySeries(
	ctx context.Context,
	activityID string,
	params Params,
	from, to *time.Time,
) (_ *Series, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.projection.activitySeries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("activity.id", activityID),
		attribute.String("projection.metric", params.MetricID),
		attribute.String("projection.mode", string(params.Mode)),
	)

	if params.MetricID == "" {
		return nil, ErrInvalidParams
	}
	if params.Mode != ModeTopSet && params.Mode != ModeAverage {
		return nil, ErrInvalidParams
	}
	if params.Split == "" {
		params.Split = SplitAll
	}

	// ranged queries bypass the cache, whole-history ones dominate
	cacheable := from == nil && to == nil
	if cacheable && a.cache != nil {
		if series, ok := a.cache.Get(activityID, params); ok {
			a.metrics.CounterProjectionCacheHits.Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return series, nil
		}
	}

	activity, err := a.repo.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if params.MetricID == ProductMetricID && !activity.MetricsMultiplicative {
		return nil, ErrInvalidParams
	}

	instances, err := a.repo.ListInstances(ctx, activities.InstanceParams{
		ActivityID: activityID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	series := BuildSeries(activity, instances, params)
	a.metrics.HistProjectionDuration.Observe(time.Since(start).Seconds())
	a.metrics.CounterProjections.WithLabelValues("activity_series").Inc()

	if cacheable && a.cache != nil {
		if err := a.cache.Set(activityID, params, series); err != nil {
			span.SetAttributes(attribute.String("cache.set.error", err.Error()))
		}
	}

	span.SetAttributes(attribute.Int("series.points", len(series.Points)))

	return &series, nil
}
