// Package middleware provides HTTP middleware for the SFA backend.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from headers so oversized
// values never land in trace attributes.
const MaxRequestIDLength = 128

// uuidRegex validates UUID format for actor IDs from headers.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig controls the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "sfa-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin so every request gets a span named after
// its route pattern, then tags the span with request_id and actor_id when
// the request carries them.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(requestAttributes(c)...)
		}
	}
}

// requestAttributes collects the span attributes a request contributes
// beyond what otelgin records on its own.
func requestAttributes(c *gin.Context) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)

	if id := requestIDForTrace(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}

	// Actor IDs must look like UUIDs before they reach the trace backend,
	// the header is caller controlled.
	if actor := c.GetHeader("X-Actor-ID"); actor != "" && uuidRegex.MatchString(actor) {
		attrs = append(attrs, attribute.String("actor_id", actor))
	}

	return attrs
}

// requestIDForTrace prefers the ID assigned by the RequestID middleware and
// falls back to the inbound header, truncated to MaxRequestIDLength.
func requestIDForTrace(c *gin.Context) string {
	if v, exists := c.Get("request_id"); exists {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}

	header := c.GetHeader("X-Request-ID")
	if len(header) > MaxRequestIDLength {
		header = header[:MaxRequestIDLength]
	}
	return header
}

// SpanErrorMarker flags the request span as errored for 4xx and 5xx
// responses. Register it after the Tracing middleware so the span exists.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		span.SetStatus(codes.Error, errorStatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func errorStatusText(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusNotFound:
		return "Not Found"
	case status == http.StatusConflict:
		return "Conflict"
	default:
		return "Client Error"
	}
}
