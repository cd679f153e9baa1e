package routes

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/LiftOffLLC/zenoti-sdk/internal/api/handlers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/api/middleware"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux                 *http.ServeMux
	availabilityHandler *handlers.AvailabilityHandler
	metrics             *observability.Metrics
	allowedOrigins      []string
}

// NewRouter creates a new router. metrics may be nil.
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		metrics:             metrics,
		allowedOrigins:      allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /api/centers/{id}/availability", r.availabilityHandler.GetAvailability)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.NoStore(handler)
	handler = middleware.Compression(handler)
	handler = middleware.RoutePattern(r.mux)(handler)

	// CORS wraps everything so preflight requests never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return otelhttp.NewHandler(handler, "http.server")
}
