package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/model"
)

func newHandler(t *testing.T) (*Handler, *mvplanning.Runtime) {
	srv, err := mvplanning.New(mvplanning.WithLogger(logger.Discard()))
	require.NoError(t, err)
	runtime := srv.Runtime()
	require.NoError(t, runtime.RegisterProfile(model.NewProfile("survey", "v1", "v2")))
	require.NoError(t, runtime.Start(context.Background()))
	t.Cleanup(func() { _ = runtime.Shutdown(context.Background()) })
	return New(runtime, srv.Gatherer(), logger.Discard()), runtime
}

func do(handler http.Handler, method, URL, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, URL, strings.NewReader(body)))
	return recorder
}

func TestHandler_Submit(t *testing.T) {
	testCases := []struct {
		description   string
		body          string
		expectStatus  int
		expectOutcome model.Outcome
	}{
		{description: "by profile id", body: `{"planId":"p-1","profileId":"survey","payload":{"x":1}}`, expectStatus: http.StatusAccepted, expectOutcome: model.OutcomeQueued},
		{description: "inline profile", body: `{"planId":"p-2","profile":{"id":"adhoc","vehicles":["v9"]},"payload":{"x":1}}`, expectStatus: http.StatusAccepted, expectOutcome: model.OutcomeQueued},
		{description: "unknown profile", body: `{"planId":"p-3","profileId":"bathymetry","payload":{}}`, expectStatus: http.StatusNotFound},
		{description: "missing plan id", body: `{"profileId":"survey","payload":{}}`, expectStatus: http.StatusBadRequest},
		{description: "missing payload", body: `{"planId":"p-4","profileId":"survey"}`, expectStatus: http.StatusBadRequest},
		{description: "malformed json", body: `{`, expectStatus: http.StatusBadRequest},
	}
	handler, _ := newHandler(t)
	for _, testCase := range testCases {
		recorder := do(handler, http.MethodPost, "/tasks", testCase.body)
		assert.Equal(t, testCase.expectStatus, recorder.Code, testCase.description)
		if testCase.expectOutcome == "" {
			continue
		}
		response := &SubmitResponse{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), response), testCase.description)
		assert.Equal(t, testCase.expectOutcome, response.Outcome, testCase.description)
	}
}

func TestHandler_Flow(t *testing.T) {
	handler, runtime := newHandler(t)

	recorder := do(handler, http.MethodPost, "/tasks", `{"planId":"p-1","profileId":"survey","payload":{"x":1}}`)
	require.Equal(t, http.StatusAccepted, recorder.Code)

	recorder = do(handler, http.MethodGet, "/pending", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var pending []*model.PlanTask
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, model.TaskStatePending, pending[0].State)

	recorder = do(handler, http.MethodPost, "/vehicles/v2/available", "")
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Eventually(t, func() bool { return len(runtime.Pending()) == 0 }, 2*time.Second, 10*time.Millisecond)

	recorder = do(handler, http.MethodGet, "/assignments?vehicle=v2", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var records []*model.Assignment
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "p-1", records[0].PlanID)

	recorder = do(handler, http.MethodGet, "/assignments?vehicle=v1", "")
	assert.JSONEq(t, `[]`, recorder.Body.String())

	recorder = do(handler, http.MethodGet, "/profiles/survey/roster", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"profile":"survey","vehicles":["v1","v2"]}`, recorder.Body.String())
	assert.Equal(t, http.StatusNotFound, do(handler, http.MethodGet, "/profiles/none/roster", "").Code)

	recorder = do(handler, http.MethodPost, "/vehicles/v2/unavailable", "")
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = do(handler, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	stats := &Stats{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), stats))
	assert.Equal(t, 1, stats.Drained)
	assert.Equal(t, []string{"survey"}, stats.Profiles)
	assert.Empty(t, stats.Available)

	recorder = do(handler, http.MethodGet, "/deadletters", "")
	assert.JSONEq(t, `[]`, recorder.Body.String())

	recorder = do(handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "mvplanning_allocations_total")
}

func TestHandler_SubmitWithPolicy(t *testing.T) {
	handler, runtime := newHandler(t)
	ctx := context.Background()
	require.NoError(t, runtime.SetAvailable(ctx, "v1", true))
	require.NoError(t, runtime.SetAvailable(ctx, "v2", true))

	recorder := do(handler, http.MethodPost, "/tasks", `{"planId":"p-1","profileId":"survey","payload":{},"policy":{"block":["v1"]}}`)
	require.Equal(t, http.StatusAccepted, recorder.Code)
	records, err := runtime.Assignments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v2", records[0].Vehicle)
}
