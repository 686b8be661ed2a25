package goals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/practicedash/internal/telemetry/metrics"
	"github.com/2beens/practicedash/internal/telemetry/tracing"
	"github.com/2beens/practicedash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=goals_test

type goalsRepo interface {
	Add(ctx context.Context, goal Goal) (*Goal, error)
	Get(ctx context.Context, id string) (*Goal, error)
	List(ctx context.Context) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, completedAt time.Time) error
	AddDuration(ctx context.Context, goalID string, mode DurationMode, entry DateDuration) error
}

type DeleteGoalResponse struct {
	DeletedID string `json:"deletedId"`
}

type UpdateGoalResponse struct {
	UpdatedID string `json:"updatedId"`
}

type CompleteGoalResponse struct {
	CompletedID string    `json:"completedId"`
	CompletedAt time.Time `json:"completedAt"`
}

type ListGoalsResponse struct {
	Goals []Goal `json:"goals"`
	Total int    `json:"total"`
}

type TimeResponse struct {
	Datasets []TimeDataset `json:"datasets"`
	RollUp   bool          `json:"rollUp"`
	Mode     DurationMode  `json:"mode"`
}

type AddDurationRequest struct {
	Mode            DurationMode `json:"mode"`
	Date            time.Time    `json:"date"`
	DurationSeconds int64        `json:"durationSeconds"`
}

type Handler struct {
	repo    goalsRepo
	metrics *metrics.Manager
}

func NewHandler(repo goalsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}

	if goal.ID == "" || goal.Name == "" {
		http.Error(w, "error, goal id or name empty", http.StatusBadRequest)
		return
	}
	if TypeOrder(goal.Type) == len(TypeHierarchy) {
		http.Error(w, "error, unknown goal type", http.StatusBadRequest)
		return
	}

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	addedGoal, err := handler.repo.Add(ctx, goal)
	if err != nil {
		log.Errorf("failed to add new goal [%s]: %s", goal.ID, err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new goal added: %s [%s]", addedGoal.ID, addedGoal.Type)
	pkg.SendJsonResponse(w, http.StatusCreated, addedGoal)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, goal)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	goalList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list goals error: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, ListGoalsResponse{
		Goals: goalList,
		Total: len(goalList),
	})
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Errorf("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	if goal.ID == "" || goal.Name == "" {
		http.Error(w, "error, goal id or name empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &goal); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			log.Debugf("goal %s not found", goal.ID)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update goal [%s]: %s", goal.ID, err)
		http.Error(w, "error, failed to update goal", http.StatusInternalServerError)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, UpdateGoalResponse{
		UpdatedID: goal.ID,
	})
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			log.Debugf("goal %s not found", id)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal %s: %s", id, err)
		http.Error(w, "goal not deleted", http.StatusInternalServerError)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, DeleteGoalResponse{
		DeletedID: id,
	})
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.complete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	completedAt := time.Now()
	if atStr := r.URL.Query().Get("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			http.Error(w, "failed to parse at param", http.StatusBadRequest)
			return
		}
		completedAt = parsed
	}

	if err := handler.repo.Complete(ctx, id, completedAt); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to complete goal %s: %s", id, err)
		http.Error(w, "error, failed to complete goal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGoalCompletions.Inc()

	log.Debugf("goal %s completed at %s", id, completedAt)
	pkg.SendJsonResponse(w, http.StatusOK, CompleteGoalResponse{
		CompletedID: id,
		CompletedAt: completedAt,
	})
}

func (handler *Handler) HandleAddDuration(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.addDuration")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var durationReq AddDurationRequest
	if err := json.NewDecoder(r.Body).Decode(&durationReq); err != nil {
		log.Tracef("add goal duration, unmarshal json params: %s", err)
		http.Error(w, "add goal duration failed", http.StatusBadRequest)
		return
	}

	if durationReq.Mode != DurationModeActivity && durationReq.Mode != DurationModeSession {
		http.Error(w, "error, unknown duration mode", http.StatusBadRequest)
		return
	}
	if durationReq.DurationSeconds <= 0 {
		http.Error(w, "error, duration must be positive", http.StatusBadRequest)
		return
	}
	if durationReq.Date.IsZero() {
		durationReq.Date = time.Now()
	}

	if _, err := handler.repo.Get(ctx, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.AddDuration(ctx, id, durationReq.Mode, DateDuration{
		Date:            durationReq.Date,
		DurationSeconds: durationReq.DurationSeconds,
	}); err != nil {
		log.Errorf("failed to add duration for goal [%s]: %s", id, err)
		http.Error(w, "error, failed to add goal duration", http.StatusInternalServerError)
		return
	}

	log.Debugf("goal %s: added %d seconds [%s] on %s", id, durationReq.DurationSeconds, durationReq.Mode, DayKey(durationReq.Date))
	pkg.WriteTextResponseOK(w, "added")
}

// HandleTime serves the stacked practice time chart data:
// GET /goals/time?rollup=<bool>&source=<activity|session>
func (handler *Handler) HandleTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.time")
	defer span.End()

	rollUp := false
	if rollUpStr := r.URL.Query().Get("rollup"); rollUpStr == "true" {
		rollUp = true
	}
	mode := DurationMode(r.URL.Query().Get("source"))
	if mode == "" {
		mode = DurationModeActivity
	}
	if mode != DurationModeActivity && mode != DurationModeSession {
		http.Error(w, "error, unknown duration source", http.StatusBadRequest)
		return
	}

	goalList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("goals time, list goals error: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	datasets := TimeDatasets(goalList, rollUp, mode)
	handler.metrics.HistProjectionDuration.Observe(time.Since(start).Seconds())
	handler.metrics.CounterProjections.WithLabelValues("goal_time").Inc()

	pkg.SendJsonResponse(w, http.StatusOK, TimeResponse{
		Datasets: datasets,
		RollUp:   rollUp,
		Mode:     mode,
	})
}

// HandleCompletionsCumulative serves the stacked completions chart data:
// GET /goals/completions/cumulative
func (handler *Handler) HandleCompletionsCumulative(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.completionsCumulative")
	defer span.End()

	goalList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("goals completions, list goals error: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	cumulative := CompletionCumulative(goalList)
	handler.metrics.HistProjectionDuration.Observe(time.Since(start).Seconds())
	handler.metrics.CounterProjections.WithLabelValues("goal_completions").Inc()

	pkg.SendJsonResponse(w, http.StatusOK, cumulative)
}
