package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/server"
)

const testShutdownTimeout = 2 * time.Second

func scenarioIndex(t *testing.T) *index.Index {
	t.Helper()

	set := &dataset.Set{Records: []dataset.Record{
		{Name: "a", Low: 1, High: 5},
		{Name: "b", Low: 3, High: 8},
		{Name: "c", Low: 10, High: 15},
	}}

	ix, err := index.Build(context.Background(), set, index.Deps{Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	return ix
}

func newTestServer(t *testing.T, ix *index.Index) *server.Server {
	t.Helper()

	return server.New(ix, server.Options{Logger: slog.New(slog.DiscardHandler)})
}

func get(t *testing.T, srv *server.Server, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestIntervals_Range(t *testing.T) {
	t.Parallel()

	ix := scenarioIndex(t)
	rec := get(t, newTestServer(t, ix), "/v1/intervals?low=4&high=4")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `"`+ix.Fingerprint()+`"`, rec.Header().Get("ETag"))

	body := decode[server.IntervalsResponse](t, rec)
	assert.Equal(t, 2, body.Count)
	assert.ElementsMatch(t, []dataset.Record{
		{Name: "a", Low: 1, High: 5},
		{Name: "b", Low: 3, High: 8},
	}, body.Intervals)
}

func TestIntervals_Point(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, scenarioIndex(t))

	body := decode[server.IntervalsResponse](t, get(t, srv, "/v1/intervals?point=12"))
	assert.Equal(t, []dataset.Record{{Name: "c", Low: 10, High: 15}}, body.Intervals)

	empty := get(t, srv, "/v1/intervals?point=9")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"query":{"low":9,"high":9},"count":0,"intervals":[]}`, empty.Body.String())
}

func TestIntervals_InvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, scenarioIndex(t)), "/v1/intervals?low=20&high=9")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[server.IntervalsResponse](t, rec).Count)
}

func TestIntervals_BadRequests(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, scenarioIndex(t))

	for _, target := range []string{
		"/v1/intervals",
		"/v1/intervals?low=1",
		"/v1/intervals?low=one&high=2",
		"/v1/intervals?point=NaN",
		"/v1/intervals?point=1&low=0",
	} {
		rec := get(t, srv, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, decode[server.ErrorResponse](t, rec).Error, target)
	}
}

func TestIntervals_NotModified(t *testing.T) {
	t.Parallel()

	ix := scenarioIndex(t)
	rec := get(t, newTestServer(t, ix), "/v1/intervals?point=4", "If-None-Match", `"`+ix.Fingerprint()+`"`)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStats(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestServer(t, scenarioIndex(t)), "/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[server.StatsResponse](t, rec)
	assert.Equal(t, 11, body.Stats.Nodes)
	assert.Len(t, body.Levels, 4)
}

func TestReadiness_FollowsIndex(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/readyz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/v1/stats").Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)

	srv.SetIndex(scenarioIndex(t))

	assert.Equal(t, http.StatusOK, get(t, srv, "/readyz").Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/v1/stats").Code)
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	without := newTestServer(t, scenarioIndex(t))
	assert.Equal(t, http.StatusNotFound, get(t, without, "/metrics").Code)

	with := server.New(scenarioIndex(t), server.Options{
		Logger: slog.New(slog.DiscardHandler),
		MetricsHandler: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(rw, "ivtree_requests_total 1\n")
		}),
	})

	rec := get(t, with, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ivtree_requests_total")
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/v1/stats", http.NoBody)
	rec := httptest.NewRecorder()

	newTestServer(t, scenarioIndex(t)).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestServe_GracefulShutdown runs the real listener on an ephemeral port and
// stops it through context cancellation.
func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	srv := server.New(scenarioIndex(t), server.Options{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: testShutdownTimeout,
		Logger:          slog.New(slog.DiscardHandler),
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Listen(ctx))

	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx) }()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		"http://"+srv.Addr()+"/v1/intervals?low=0&high=100", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body := struct{ Count int }{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, 3, body.Count)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * testShutdownTimeout):
		t.Fatal("server did not stop")
	}
}
