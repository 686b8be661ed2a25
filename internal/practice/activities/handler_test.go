package activities_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/practicedash/internal/practice/activities"
	"github.com/2beens/practicedash/internal/telemetry/metrics"
)

func TestHandler_HandleAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	now := time.Now()
	testActivity := activities.ActivityDefinition{
		ID:        "scales-practice",
		Name:      "Scales Practice",
		HasSets:   true,
		HasSplits: true,
		Metrics: []activities.MetricDefinition{
			{ID: "tempo", Name: "Tempo", Unit: "bpm", TopSetMetric: true},
			{ID: "duration", Name: "Duration", Unit: "min"},
		},
		Splits: []activities.SplitDefinition{
			{ID: "left-hand", Name: "Left Hand"},
			{ID: "right-hand", Name: "Right Hand"},
		},
		CreatedAt: now,
	}

	testActivityJson, err := json.Marshal(testActivity)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(testActivityJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, a activities.ActivityDefinition) (*activities.ActivityDefinition, error) {
			assert.Equal(t, testActivity.ID, a.ID)
			assert.Equal(t, testActivity.Name, a.Name)
			assert.True(t, a.HasSets)
			assert.True(t, a.HasSplits)
			assert.Len(t, a.Metrics, 2)
			assert.Len(t, a.Splits, 2)
			return &a, nil
		}).Times(1)

	h.HandleAdd(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var addedActivity activities.ActivityDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addedActivity))
	assert.Equal(t, testActivity.ID, addedActivity.ID)
	assert.Equal(t, testActivity.Name, addedActivity.Name)
}

func TestHandler_HandleAdd_InvalidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	for name, body := range map[string]string{
		"no id":      `{"name":"Scales Practice","metrics":[{"id":"tempo"}]}`,
		"no name":    `{"id":"scales-practice","metrics":[{"id":"tempo"}]}`,
		"no metrics": `{"id":"scales-practice","name":"Scales Practice"}`,
		"not json":   `scales`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req, err := http.NewRequest("POST", "", bytes.NewReader([]byte(body)))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			h.HandleAdd(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_HandleGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	testActivity := &activities.ActivityDefinition{
		ID:   "sight-reading",
		Name: "Sight Reading",
		Metrics: []activities.MetricDefinition{
			{ID: "pages", Name: "Pages"},
		},
	}

	repoMock.EXPECT().
		Get(gomock.Any(), "sight-reading").
		Return(testActivity, nil)

	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "sight-reading"})

	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var gotActivity activities.ActivityDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gotActivity))
	assert.Equal(t, testActivity.ID, gotActivity.ID)
	assert.Equal(t, testActivity.Name, gotActivity.Name)
}

func TestHandler_HandleGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	repoMock.EXPECT().
		Get(gomock.Any(), "nope").
		Return(nil, activities.ErrActivityNotFound)

	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleList(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	repoMock.EXPECT().
		List(gomock.Any()).
		Return([]activities.ActivityDefinition{
			{ID: "scales-practice", Name: "Scales Practice"},
			{ID: "sight-reading", Name: "Sight Reading"},
		}, nil)

	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleList(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp activities.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Total)
	require.Len(t, listResp.Activities, 2)
	assert.Equal(t, "scales-practice", listResp.Activities[0].ID)
}

func TestHandler_HandleListPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	repoMock.EXPECT().
		ListPage(gomock.Any(), activities.ListParams{Page: 2, Size: 1}).
		Return([]activities.ActivityDefinition{
			{ID: "sight-reading", Name: "Sight Reading"},
		}, 5, nil)

	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"page": "2", "size": "1"})

	rec := httptest.NewRecorder()
	h.HandleListPage(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp activities.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 5, listResp.Total)
	require.Len(t, listResp.Activities, 1)
	assert.Equal(t, "sight-reading", listResp.Activities[0].ID)
}

func TestHandler_HandleListPage_InvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	for _, vars := range []map[string]string{
		{"page": "0", "size": "10"},
		{"page": "1", "size": "0"},
		{"page": "x", "size": "10"},
		{"page": "1", "size": "x"},
	} {
		req, err := http.NewRequest("GET", "", nil)
		require.NoError(t, err)
		req = mux.SetURLVars(req, vars)

		rec := httptest.NewRecorder()
		h.HandleListPage(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_HandleUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	cacheMock := NewMockseriesCache(ctrl)
	h := activities.NewHandler(repoMock, cacheMock, metrics.NewTestManager())

	// a changed definition makes cached series stale
	cacheMock.EXPECT().Clear()

	testActivity := activities.ActivityDefinition{
		ID:   "scales-practice",
		Name: "Scales Practice Renamed",
		Metrics: []activities.MetricDefinition{
			{ID: "tempo", Name: "Tempo", Unit: "bpm"},
		},
	}
	testActivityJson, err := json.Marshal(testActivity)
	require.NoError(t, err)

	repoMock.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, a *activities.ActivityDefinition) error {
			assert.Equal(t, testActivity.ID, a.ID)
			assert.Equal(t, testActivity.Name, a.Name)
			return nil
		})

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("PUT", "", bytes.NewReader(testActivityJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleUpdate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updateResp activities.UpdateActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updateResp))
	assert.Equal(t, testActivity.ID, updateResp.UpdatedID)
}

func TestHandler_HandleDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	cacheMock := NewMockseriesCache(ctrl)
	h := activities.NewHandler(repoMock, cacheMock, metrics.NewTestManager())

	repoMock.EXPECT().
		Delete(gomock.Any(), "scales-practice").
		Return(nil)
	cacheMock.EXPECT().Clear()

	req, err := http.NewRequest("DELETE", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "scales-practice"})

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleteResp activities.DeleteActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleteResp))
	assert.Equal(t, "scales-practice", deleteResp.DeletedID)
}

func TestHandler_HandleDelete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	repoMock.EXPECT().
		Delete(gomock.Any(), "nope").
		Return(activities.ErrActivityNotFound)

	req, err := http.NewRequest("DELETE", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleAddInstance(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	cacheMock := NewMockseriesCache(ctrl)
	h := activities.NewHandler(repoMock, cacheMock, metrics.NewTestManager())

	// a recorded instance must drop cached series right away
	cacheMock.EXPECT().Clear()

	testActivity := &activities.ActivityDefinition{
		ID:      "scales-practice",
		Name:    "Scales Practice",
		HasSets: true,
		Metrics: []activities.MetricDefinition{
			{ID: "tempo", Name: "Tempo", Unit: "bpm", TopSetMetric: true},
		},
	}

	instance := activities.ActivityInstance{
		SessionID:   "session-1",
		SessionName: "Morning Session",
		SessionDate: time.Now(),
		Sets: []activities.Set{
			{Metrics: []activities.MetricValue{{MetricID: "tempo", Value: "120"}}},
			{Metrics: []activities.MetricValue{{MetricID: "tempo", Value: "132"}}},
		},
	}
	instanceJson, err := json.Marshal(instance)
	require.NoError(t, err)

	repoMock.EXPECT().
		Get(gomock.Any(), "scales-practice").
		Return(testActivity, nil)
	repoMock.EXPECT().
		AddInstance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, i activities.ActivityInstance) error {
			assert.Equal(t, "scales-practice", i.ActivityID)
			assert.Equal(t, "session-1", i.SessionID)
			assert.True(t, i.HasSets)
			assert.Len(t, i.Sets, 2)
			return nil
		})

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(instanceJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req = mux.SetURLVars(req, map[string]string{"id": "scales-practice"})

	h.HandleAddInstance(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_HandleListInstances(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	h := activities.NewHandler(repoMock, nil, metrics.NewTestManager())

	now := time.Now()
	from := now.Add(-24 * time.Hour)
	repoMock.EXPECT().
		ListInstances(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params activities.InstanceParams) ([]activities.ActivityInstance, error) {
			assert.Equal(t, "scales-practice", params.ActivityID)
			require.NotNil(t, params.From)
			assert.Equal(t, from.Unix(), params.From.Unix())
			assert.Nil(t, params.To)
			return []activities.ActivityInstance{
				{ActivityID: "scales-practice", SessionID: "session-1", SessionDate: now},
			}, nil
		})

	url := fmt.Sprintf("?from=%s", from.Format(time.RFC3339))
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"id": "scales-practice"})

	rec := httptest.NewRecorder()
	h.HandleListInstances(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var instances []activities.ActivityInstance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &instances))
	require.Len(t, instances, 1)
	assert.Equal(t, "session-1", instances[0].SessionID)
}
