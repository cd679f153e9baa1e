package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests. metrics may be nil.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Use route pattern instead of raw path to avoid high cardinality
			route := RouteFromContext(r)

			ctx, span := observability.StartSpan(r.Context(), route)
			defer span.End()

			// Request attributes, plus the availability query when the route carries one
			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
			)
			observability.SetSpanAttributes(span, availabilityAttributes(r)...)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			if metrics != nil {
				observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			}

			observability.SetSpanAttributes(span, attribute.Int("http.status_code", rw.statusCode))
		})
	}
}

// availabilityAttributes tags spans with what an availability request asks for.
func availabilityAttributes(r *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if centerID := RouteParam(r, "id"); centerID != "" {
		attrs = append(attrs, attribute.String("availability.center_id", centerID))
	}
	query := r.URL.Query()
	for _, name := range []string{"service_id", "date"} {
		if value := query.Get(name); value != "" {
			attrs = append(attrs, attribute.String("availability."+name, value))
		}
	}
	return attrs
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
