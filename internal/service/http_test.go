package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flownet/pkg/model"
	"flownet/pkg/ratelimit"
)

func newTestServer(t *testing.T, svc *SolverService, limiter ratelimit.Limiter) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(svc, limiter).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postSolve(t *testing.T, srv *httptest.Server, req *model.SolveRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/v1/solve", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandleSolve(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp := postSolve(t, srv, diamondRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	body := decodeBody[model.SolveResponse](t, resp)
	assert.Equal(t, 20.0, body.Result.MaxFlow)
	assert.Equal(t, model.AlgorithmScaling, body.Algorithm)
}

func TestHandleSolveBadJSON(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp, err := http.Post(srv.URL+"/api/v1/solve", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[model.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_ARGUMENT", body.Code)
}

func TestHandleSolveValidationErrors(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp := postSolve(t, srv, &model.SolveRequest{
		Graph: model.GraphSpec{
			Vertices: []string{"s", "t"},
			Edges: []model.EdgeSpec{
				{From: "s", To: "ghost", Capacity: 1},
				{From: "s", To: "t", Capacity: -1},
			},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[model.ErrorResponse](t, resp)
	assert.Len(t, body.Details, 2)
}

func TestHandleSolveMissingEndpoint(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp := postSolve(t, srv, &model.SolveRequest{
		Graph: model.GraphSpec{
			Vertices: []string{"s", "a"},
			Edges:    []model.EdgeSpec{{From: "s", To: "a", Capacity: 1}},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody[model.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_SINK", body.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestHandleListRuns(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewSolverService(testConfig(), nil, repo)
	srv := newTestServer(t, svc, nil)

	_, err := svc.Solve(context.Background(), diamondRequest())
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/v1/runs?limit=10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, float64(1), body["total"])
}

func TestHandleListRunsWithoutHistory(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleGetRun(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewSolverService(testConfig(), nil, repo)
	srv := newTestServer(t, svc, nil)

	_, err := svc.Solve(context.Background(), diamondRequest())
	require.NoError(t, err)
	require.Len(t, repo.runs, 1)

	resp, err := http.Get(srv.URL + "/api/v1/runs/" + repo.runs[0].ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/runs/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, err := ratelimit.New(&ratelimit.Config{
		Requests: 2,
		Window:   time.Minute,
		Backend:  "memory",
	})
	require.NoError(t, err)
	defer limiter.Close()

	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), limiter)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body := decodeBody[model.ErrorResponse](t, resp)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t, NewSolverService(testConfig(), nil, nil), nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}
