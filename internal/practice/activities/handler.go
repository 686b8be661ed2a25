package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/practicedash/internal/telemetry/metrics"
	"github.com/2beens/practicedash/internal/telemetry/tracing"
	"github.com/2beens/practicedash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=activities_test

type activitiesRepo interface {
	Add(ctx context.Context, activity ActivityDefinition) (*ActivityDefinition, error)
	Get(ctx context.Context, id string) (*ActivityDefinition, error)
	List(ctx context.Context) ([]ActivityDefinition, error)
	ListPage(ctx context.Context, params ListParams) ([]ActivityDefinition, int, error)
	Update(ctx context.Context, activity *ActivityDefinition) error
	Delete(ctx context.Context, id string) error
	AddInstance(ctx context.Context, instance ActivityInstance) error
	ListInstances(ctx context.Context, params InstanceParams) ([]ActivityInstance, error)
}

type DeleteActivityResponse struct {
	DeletedID string `json:"deletedId"`
}

type UpdateActivityResponse struct {
	UpdatedID string `json:"updatedId"`
}

type ListResponse struct {
	Activities []ActivityDefinition `json:"activities"`
	Total      int                  `json:"total"`
}

// seriesCache drops computed chart series so writes become
// visible before the cached entries expire
type seriesCache interface {
	Clear()
}

type Handler struct {
	repo    activitiesRepo
	cache   seriesCache
	metrics *metrics.Manager
}

func NewHandler(repo activitiesRepo, cache seriesCache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		cache:   cache,
		metrics: metricsManager,
	}
}

func (handler *Handler) invalidateSeries() {
	if handler.cache != nil {
		handler.cache.Clear()
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var activity ActivityDefinition
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		log.Tracef("new activity, unmarshal json params: %s", err)
		http.Error(w, "add activity failed", http.StatusBadRequest)
		return
	}

	if activity.ID == "" || activity.Name == "" {
		http.Error(w, "error, activity id or name empty", http.StatusBadRequest)
		return
	}
	if len(activity.Metrics) == 0 {
		http.Error(w, "error, activity needs at least one metric", http.StatusBadRequest)
		return
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	addedActivity, err := handler.repo.Add(ctx, activity)
	if err != nil {
		log.Errorf("failed to add new activity [%s]: %s", activity.ID, err)
		http.Error(w, "error, failed to add new activity", http.StatusInternalServerError)
		return
	}

	addedActivityJson, err := json.Marshal(addedActivity)
	if err != nil {
		log.Errorf("failed to marshal new activity: %s", err)
		http.Error(w, "error, failed to add new activity", http.StatusInternalServerError)
		return
	}

	log.Debugf("new activity added: %s", addedActivity.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedActivityJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	activity, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get activity %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal activity: %s", err)
		http.Error(w, "failed to marshal activity", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, activityJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.list")
	defer span.End()

	activityList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list activities error: %s", err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Activities: activityList,
		Total:      len(activityList),
	})
	if err != nil {
		log.Errorf("marshal activities error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleListPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.listPage")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Errorf("handle list activities page, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Errorf("handle list activities page, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 || size < 1 {
		http.Error(w, "invalid page or size (has to be a non-zero value)", http.StatusBadRequest)
		return
	}

	activityList, total, err := handler.repo.ListPage(ctx, ListParams{Page: page, Size: size})
	if err != nil {
		log.Errorf("list activities page error: %s", err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Activities: activityList,
		Total:      total,
	})
	if err != nil {
		log.Errorf("marshal activities error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var activity ActivityDefinition
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		log.Errorf("update activity, unmarshal json params: %s", err)
		http.Error(w, "update activity failed", http.StatusBadRequest)
		return
	}

	if activity.ID == "" || activity.Name == "" {
		http.Error(w, "error, activity id or name empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &activity); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			log.Debugf("activity %s not found", activity.ID)
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update activity [%s]: %s", activity.ID, err)
		http.Error(w, "error, failed to update activity", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateActivityResponse{
		UpdatedID: activity.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	handler.invalidateSeries()

	log.Debugf("activity updated: %s", activity.ID)
	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			log.Debugf("activity %s not found", id)
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete activity %s: %s", id, err)
		http.Error(w, "activity not deleted", http.StatusInternalServerError)
		return
	}

	handler.invalidateSeries()

	deleteRespJson, err := json.Marshal(DeleteActivityResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleAddInstance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.newInstance")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	activityID := vars["id"]
	if activityID == "" {
		http.Error(w, "error, activity id empty", http.StatusBadRequest)
		return
	}

	var instance ActivityInstance
	if err := json.NewDecoder(r.Body).Decode(&instance); err != nil {
		log.Tracef("new activity instance, unmarshal json params: %s", err)
		http.Error(w, "add activity instance failed", http.StatusBadRequest)
		return
	}
	instance.ActivityID = activityID

	if instance.SessionID == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}
	if instance.SessionDate.IsZero() {
		instance.SessionDate = time.Now()
	}

	activity, err := handler.repo.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get activity %s: %s", activityID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// the stored shape follows the activity definition, not the client payload
	instance.HasSets = activity.HasSets

	if err := handler.repo.AddInstance(ctx, instance); err != nil {
		log.Errorf("failed to add instance for activity [%s]: %s", activityID, err)
		http.Error(w, "error, failed to add activity instance", http.StatusInternalServerError)
		return
	}

	handler.invalidateSeries()
	handler.metrics.CounterSessions.Inc()

	log.Debugf("new instance added for activity %s, session %s", activityID, instance.SessionID)
	pkg.SendJsonResponse(w, http.StatusCreated, instance)
}

func (handler *Handler) HandleListInstances(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.listInstances")
	defer span.End()

	vars := mux.Vars(r)
	activityID := vars["id"]
	if activityID == "" {
		http.Error(w, "error, activity id empty", http.StatusBadRequest)
		return
	}

	params := InstanceParams{ActivityID: activityID}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "failed to parse from param", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "failed to parse to param", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	instances, err := handler.repo.ListInstances(ctx, params)
	if err != nil {
		log.Errorf("list instances for activity [%s]: %s", activityID, err)
		http.Error(w, "failed to get activity instances", http.StatusInternalServerError)
		return
	}

	instancesJson, err := json.Marshal(instances)
	if err != nil {
		log.Errorf("failed to marshal activity instances: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, instancesJson, http.StatusOK)
}
