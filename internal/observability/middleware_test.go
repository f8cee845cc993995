package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/ivtree/internal/observability"
)

func newTestTracer(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return exporter, tp
}

func TestHTTPMiddleware_CreatesSpan(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracer(t)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), slog.New(slog.DiscardHandler), nil, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/intervals", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /v1/intervals", spans[0].Name)
}

func TestHTTPMiddleware_ServerErrorMarksSpan(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracer(t)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), slog.New(slog.DiscardHandler), nil, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/stats", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

// TestHTTPMiddleware_RecordsRED checks that client errors count as errors
// and that the debug log line carries the status.
func TestHTTPMiddleware_RecordsRED(t *testing.T) {
	t.Parallel()

	_, tp := newTestTracer(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusBadRequest)
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), logger, red, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/intervals", http.NoBody))

	rm := collectMetrics(t, reader)

	assert.NotNil(t, findMetric(rm, "ivtree.requests.total"))
	assert.NotNil(t, findMetric(rm, "ivtree.errors.total"))
	assert.Contains(t, logs.String(), "status=400")
}
