package projection

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/practicedash/internal/practice/activities"
	"github.com/2beens/practicedash/internal/telemetry/tracing"
	"github.com/2beens/practicedash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

// HandleActivitySeries serves the chart series for one activity:
// GET /practice/activity/{id}/series?metric=<id|product>&mode=<top|average>&split=<all|id>
func (handler *Handler) HandleActivitySeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.projection.activitySeries")
	defer span.End()

	vars := mux.Vars(r)
	activityID := vars["id"]
	if activityID == "" {
		http.Error(w, "error, activity id empty", http.StatusBadRequest)
		return
	}

	params := Params{
		MetricID: r.URL.Query().Get("metric"),
		Mode:     Mode(r.URL.Query().Get("mode")),
		Split:    r.URL.Query().Get("split"),
	}
	if params.Mode == "" {
		params.Mode = ModeTopSet
	}

	var from, to *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "failed to parse from param", http.StatusBadRequest)
			return
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "failed to parse to param", http.StatusBadRequest)
			return
		}
		to = &parsed
	}

	series, err := handler.analyzer.ActivitySeries(ctx, activityID, params, from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidParams):
			http.Error(w, "invalid projection params", http.StatusBadRequest)
		case errors.Is(err, activities.ErrActivityNotFound):
			http.Error(w, "activity not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get series for activity [%s]: %s", activityID, err)
			http.Error(w, "failed to get activity series", http.StatusInternalServerError)
		}
		return
	}

	seriesJson, err := json.Marshal(series)
	if err != nil {
		log.Errorf("failed to marshal activity series: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, seriesJson, http.StatusOK)
}
