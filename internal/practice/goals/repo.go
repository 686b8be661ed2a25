package goals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/practicedash/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var parentID *string
	if goal.ParentID != "" {
		parentID = &goal.ParentID
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO goal
				(id, name, type, parent_id, completed, completed_at, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		goal.ID, goal.Name, goal.Type, parentID, goal.Completed, goal.CompletedAt, goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("goal.id", goal.ID))

	return &goal, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, type, parent_id, completed, completed_at, created_at
			FROM goal WHERE id = $1;`,
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
		return nil, ErrGoalNotFound
	}

	goal, err := scanGoal(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachDurations(ctx, map[string]*Goal{goal.ID: goal}); err != nil {
		return nil, err
	}

	return goal, nil
}

// List gives all goals with their duration entries attached.
func (r *Repo) List(ctx context.Context) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, type, parent_id, completed, completed_at, created_at
			FROM goal ORDER BY created_at;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goalList []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goalList = append(goalList, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	goalByID := make(map[string]*Goal, len(goalList))
	for i := range goalList {
		goalByID[goalList[i].ID] = &goalList[i]
	}
	if err := r.attachDurations(ctx, goalByID); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("goals.count", len(goalList)))

	return goalList, nil
}

func (r *Repo) Update(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goal.ID))

	var parentID *string
	if goal.ParentID != "" {
		parentID = &goal.ParentID
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE goal SET
				name = $1, type = $2, parent_id = $3, completed = $4, completed_at = $5
			WHERE id = $6;`,
		goal.Name, goal.Type, parentID, goal.Completed, goal.CompletedAt, goal.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM goal WHERE id = $1;`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Complete(ctx context.Context, id string, completedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE goal SET completed = TRUE, completed_at = $1 WHERE id = $2;`,
		completedAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// AddDuration records practice time against a goal for one calendar day.
// Time for the same goal and day accumulates.
func (r *Repo) AddDuration(ctx context.Context, goalID string, mode DurationMode, entry DateDuration) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.addDuration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("goal.id", goalID),
		attribute.String("duration.mode", string(mode)),
	)

	table := "goal_activity_duration"
	if mode == DurationModeSession {
		table = "goal_session_duration"
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (goal_id, day, duration_seconds)
			VALUES ($1, $2, $3)
			ON CONFLICT (goal_id, day)
			DO UPDATE SET duration_seconds = %s.duration_seconds + EXCLUDED.duration_seconds;`,
		table, table,
	)
	_, err = r.db.Exec(ctx, query, goalID, DayKey(entry.Date), entry.DurationSeconds)
	return err
}

func (r *Repo) attachDurations(ctx context.Context, goalByID map[string]*Goal) error {
	if len(goalByID) == 0 {
		return nil
	}

	for _, table := range []string{"goal_activity_duration", "goal_session_duration"} {
		rows, err := r.db.Query(
			ctx,
			fmt.Sprintf(`SELECT goal_id, day, duration_seconds FROM %s ORDER BY day;`, table),
		)
		if err != nil {
			return err
		}

		for rows.Next() {
			var goalID, day string
			var seconds int64
			if err := rows.Scan(&goalID, &day, &seconds); err != nil {
				rows.Close()
				return fmt.Errorf("rows scan: %w", err)
			}
			goal, ok := goalByID[goalID]
			if !ok {
				continue
			}
			date, err := time.Parse(dayKeyLayout, day)
			if err != nil {
				rows.Close()
				return fmt.Errorf("parse day key [%s]: %w", day, err)
			}
			entry := DateDuration{Date: date, DurationSeconds: seconds}
			if table == "goal_activity_duration" {
				goal.ActivityDurationsByDate = append(goal.ActivityDurationsByDate, entry)
			} else {
				goal.SessionDurationsByDate = append(goal.SessionDurationsByDate, entry)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	return nil
}

func scanGoal(rows pgx.Rows) (*Goal, error) {
	var goal Goal
	var parentID *string
	if err := rows.Scan(
		&goal.ID, &goal.Name, &goal.Type, &parentID,
		&goal.Completed, &goal.CompletedAt, &goal.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	if parentID != nil {
		goal.ParentID = *parentID
	}
	return &goal, nil
}
