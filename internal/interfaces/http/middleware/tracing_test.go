package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs a recording provider for the duration of the test.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range sr.Ended() {
		if s.Name() == name {
			return s
		}
	}
	require.Failf(t, "span not found", "no ended span named %q", name)
	return nil
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func tracedRouter(status int, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Tracing(), SpanErrorMarker())
	r.Use(mw...)
	r.GET("/api/v1/leads/:id", func(c *gin.Context) { c.Status(status) })
	return r
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "GET", "/test", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanNamedByRoute(t *testing.T) {
	sr := setupTestTracer(t)

	do(tracedRouter(http.StatusOK), "GET", "/api/v1/leads/7", nil)

	span := findSpan(t, sr, "GET /api/v1/leads/:id")
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracingAttributeInjector(t *testing.T) {
	sr := setupTestTracer(t)
	fakeAuth := func(c *gin.Context) {
		c.Set(JWTUserIDKey, int64(42))
		c.Next()
	}

	do(tracedRouter(http.StatusOK, fakeAuth, TracingAttributeInjector()), "GET", "/api/v1/leads/7",
		map[string]string{RequestIDHeader: "req-1"})

	attrs := spanAttrs(findSpan(t, sr, "GET /api/v1/leads/:id"))
	assert.Equal(t, "req-1", attrs["request_id"].AsString())
	assert.Equal(t, int64(42), attrs["user_id"].AsInt64())
}

func TestTracingAttributeInjector_Anonymous(t *testing.T) {
	sr := setupTestTracer(t)

	do(tracedRouter(http.StatusOK, TracingAttributeInjector()), "GET", "/api/v1/leads/7", nil)

	attrs := spanAttrs(findSpan(t, sr, "GET /api/v1/leads/:id"))
	assert.NotEmpty(t, attrs["request_id"].AsString())
	_, hasUser := attrs["user_id"]
	assert.False(t, hasUser)
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Client Error"},
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "Forbidden"},
		{http.StatusNotFound, "Not Found"},
		{http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			sr := setupTestTracer(t)

			do(tracedRouter(tt.status), "GET", "/api/v1/leads/7", nil)

			span := findSpan(t, sr, "GET /api/v1/leads/:id")
			assert.Equal(t, codes.Error, span.Status().Code)
			// otelgin sets its own status on 5xx after the marker has run.
			if tt.status < http.StatusInternalServerError {
				assert.Equal(t, tt.message, span.Status().Description)
			}
			assert.Equal(t, int64(tt.status), spanAttrs(span)["http.status_code"].AsInt64())
		})
	}
}

func TestSpanErrorMarker_WithNoSpan(t *testing.T) {
	r := gin.New()
	r.Use(SpanErrorMarker())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	assert.NotPanics(t, func() { do(r, "GET", "/test", nil) })
}
