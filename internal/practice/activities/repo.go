package activities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/practicedash/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrActivityNotFound = errors.New("activity not found")

type InstanceParams struct {
	ActivityID string
	From       *time.Time
	To         *time.Time
}

type ListParams struct {
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, activity ActivityDefinition) (_ *ActivityDefinition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	metricsJson, err := json.Marshal(activity.Metrics)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	splitsJson, err := json.Marshal(activity.Splits)
	if err != nil {
		return nil, fmt.Errorf("marshal splits: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO activity
				(id, name, has_sets, has_splits, metrics_multiplicative, metrics, splits, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		activity.ID, activity.Name, activity.HasSets, activity.HasSplits,
		activity.MetricsMultiplicative, metricsJson, splitsJson, activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("activity.id", activity.ID))

	return &activity, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *ActivityDefinition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, has_sets, has_splits, metrics_multiplicative, metrics, splits, created_at
			FROM activity WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrActivityNotFound
	}

	activity, err := scanActivity(rows)
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *Repo) List(ctx context.Context) (_ []ActivityDefinition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, has_sets, has_splits, metrics_multiplicative, metrics, splits, created_at
			FROM activity ORDER BY created_at;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activityList []ActivityDefinition
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activityList = append(activityList, *activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("activities.count", len(activityList)))

	return activityList, nil
}

func (r *Repo) ListPage(ctx context.Context, params ListParams) (_ []ActivityDefinition, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listPage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	limit := params.Size
	offset := (params.Page - 1) * params.Size

	countAll, err := r.Count(ctx)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		all, err := r.List(ctx)
		return all, len(all), err
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	log.Tracef("listing activities, total count %d, limit %d, offset %d", countAll, limit, offset)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, has_sets, has_splits, metrics_multiplicative, metrics, splits, created_at
			FROM activity ORDER BY created_at
			LIMIT $1 OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	var activityList []ActivityDefinition
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, -1, err
		}
		activityList = append(activityList, *activity)
	}
	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	return activityList, countAll, nil
}

func (r *Repo) Count(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *Repo) Update(ctx context.Context, activity *ActivityDefinition) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.id", activity.ID))

	metricsJson, err := json.Marshal(activity.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	splitsJson, err := json.Marshal(activity.Splits)
	if err != nil {
		return fmt.Errorf("marshal splits: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE activity SET
				name = $1, has_sets = $2, has_splits = $3,
				metrics_multiplicative = $4, metrics = $5, splits = $6
			WHERE id = $7;`,
		activity.Name, activity.HasSets, activity.HasSplits,
		activity.MetricsMultiplicative, metricsJson, splitsJson, activity.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM activity WHERE id = $1;`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *Repo) AddInstance(ctx context.Context, instance ActivityInstance) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.addInstance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.id", instance.ActivityID))

	var payload []byte
	if instance.HasSets {
		payload, err = json.Marshal(instance.Sets)
	} else {
		payload, err = json.Marshal(instance.Metrics)
	}
	if err != nil {
		return fmt.Errorf("marshal instance payload: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO activity_instance
				(activity_id, session_id, session_name, session_date, has_sets, payload)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		instance.ActivityID, instance.SessionID, instance.SessionName,
		instance.SessionDate, instance.HasSets, payload,
	)
	return err
}

// ListInstances gives all recorded instances for an activity,
// oldest sessions first
func (r *Repo) ListInstances(ctx context.Context, params InstanceParams) (_ []ActivityInstance, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listInstances")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.id", params.ActivityID))

	query := `SELECT activity_id, session_id, session_name, session_date, has_sets, payload
		FROM activity_instance WHERE activity_id = $1`
	args := []any{params.ActivityID}
	if params.From != nil {
		args = append(args, *params.From)
		query += fmt.Sprintf(" AND session_date >= $%d", len(args))
	}
	if params.To != nil {
		args = append(args, *params.To)
		query += fmt.Sprintf(" AND session_date <= $%d", len(args))
	}
	query += " ORDER BY session_date;"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []ActivityInstance
	for rows.Next() {
		var instance ActivityInstance
		var payload []byte
		if err := rows.Scan(
			&instance.ActivityID, &instance.SessionID, &instance.SessionName,
			&instance.SessionDate, &instance.HasSets, &payload,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		if instance.HasSets {
			if err := json.Unmarshal(payload, &instance.Sets); err != nil {
				return nil, fmt.Errorf("unmarshal instance sets: %w", err)
			}
		} else {
			if err := json.Unmarshal(payload, &instance.Metrics); err != nil {
				return nil, fmt.Errorf("unmarshal instance metrics: %w", err)
			}
		}

		instances = append(instances, instance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("instances.count", len(instances)))

	return instances, nil
}

func scanActivity(rows pgx.Rows) (*ActivityDefinition, error) {
	var activity ActivityDefinition
	var metricsJson, splitsJson []byte
	if err := rows.Scan(
		&activity.ID, &activity.Name, &activity.HasSets, &activity.HasSplits,
		&activity.MetricsMultiplicative, &metricsJson, &splitsJson, &activity.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	if err := json.Unmarshal(metricsJson, &activity.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal(splitsJson, &activity.Splits); err != nil {
		return nil, fmt.Errorf("unmarshal splits: %w", err)
	}
	return &activity, nil
}
