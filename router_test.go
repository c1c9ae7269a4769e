package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeroshade/marinaapi/internal/metrics"
	"github.com/zeroshade/marinaapi/internal/store"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, repo store.Repository, opts routerOptions) *gin.Engine {
	t.Helper()
	router, _ := setupRouterWithMetrics(t, repo, opts)
	return router
}

func setupRouterWithMetrics(t *testing.T, repo store.Repository, opts routerOptions) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	return newRouter(repo, zap.NewNop(), m, opts), m
}

func assignments(m *metrics.Metrics, result string) float64 {
	return testutil.ToFloat64(m.Assignments().WithLabelValues(result))
}

// backends runs fn against the in-memory store and an in-memory SQLite store
func backends(t *testing.T, fn func(t *testing.T, repo store.Repository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		repo, err := store.OpenSQLite(":memory:", zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		fn(t, repo)
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	assert.Equal(t, code, w.Code)
	assert.JSONEq(t, `{"Error":`+strconv.Quote(msg)+`}`, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func postBoat(t *testing.T, router http.Handler, body string) types.Boat {
	t.Helper()
	w := do(router, http.MethodPost, "/boats", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.Boat](t, w)
}

func postSlip(t *testing.T, router http.Handler, number int) types.Slip {
	t.Helper()
	w := do(router, http.MethodPost, "/slips", `{"number":`+strconv.Itoa(number)+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.Slip](t, w)
}

func boatPath(id int64) string { return "/boats/" + strconv.FormatInt(id, 10) }
func slipPath(id int64) string { return "/slips/" + strconv.FormatInt(id, 10) }
func mooringPath(slipID, boatID int64) string {
	return slipPath(slipID) + "/" + strconv.FormatInt(boatID, 10)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, store.NewMemory(), routerOptions{})
	w := do(router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

type unreachableStore struct {
	*store.Memory
}

var errUnreachable = errors.New("dial tcp: connection refused")

func (unreachableStore) Ping(context.Context) error { return errUnreachable }
func (unreachableStore) GetBoat(context.Context, int64) (*types.Boat, error) {
	return nil, errUnreachable
}
func (unreachableStore) ListSlips(context.Context) ([]types.Slip, error) {
	return nil, errUnreachable
}

func TestStoreFailures(t *testing.T) {
	router := setupRouter(t, unreachableStore{store.NewMemory()}, routerOptions{})

	w := do(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assertError(t, do(router, http.MethodGet, "/boats/1", ""), http.StatusInternalServerError, msgInternal)
	assertError(t, do(router, http.MethodGet, "/slips", ""), http.StatusInternalServerError, msgInternal)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t, store.NewMemory(), routerOptions{})
	do(router, http.MethodGet, "/boats", "")

	w := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `marina_http_requests_total{code="200",method="GET",route="/boats"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(t, store.NewMemory(), routerOptions{})
	w := do(router, http.MethodGet, "/boats", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
