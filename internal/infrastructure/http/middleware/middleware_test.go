package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.NoError(t, readErr)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("definitely too long")))
	var maxBytesErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxBytesErr)
}

func TestBodyLimit_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := BodyLimit(0)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 1<<10))))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPRouteContext_UsesResolvedPattern(t *testing.T) {
	var route string
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(HTTPRouteContext)
		r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			route = telemetry.HTTPRouteFromContext(r.Context())
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))
	assert.Equal(t, "/products/{id}", route)
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(StructuredLogger(logger))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/7?verbose=1", nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "/products/{id}", record["http.route"])
	assert.Equal(t, "/products/7", record["url.path"])
	assert.Equal(t, "verbose=1", record["url.query"])
	assert.EqualValues(t, http.StatusNotFound, record["http.response.status_code"])
	assert.NotEmpty(t, record["request_id"])
}

func TestMetricMiddlewares_PassThrough(t *testing.T) {
	meter := metricnoop.NewMeterProvider().Meter("test")

	r := chi.NewRouter()
	r.Use(ActiveRequests(meter))
	r.Use(DurationMilliseconds(meter))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/silent", func(http.ResponseWriter, *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/silent", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
