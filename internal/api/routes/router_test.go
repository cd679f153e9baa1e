package routes

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiftOffLLC/zenoti-sdk/internal/api/handlers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
)

type stubService struct {
	calls int
}

func (s *stubService) GetAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*availability.AvailabilityResult, error) {
	s.calls++
	return &availability.AvailabilityResult{
		Therapists: []availability.TherapistAvailability{{TherapistID: "t1", FormattedSlots: []string{"2026-03-27T09:00:00"}}},
	}, nil
}

func newTestHandler(service *stubService, origins []string) http.Handler {
	handler := handlers.NewAvailabilityHandler(service, nil)
	return NewRouter(handler, nil, origins).SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&stubService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_AvailabilityIsNotCacheable(t *testing.T) {
	service := &stubService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/centers/c1/availability?date=2026-03-27&service_id=s1&duration=60", nil)
	newTestHandler(service, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "2026-03-27T09:00:00")
	assert.Equal(t, 1, service.calls)
}

func TestRouter_GzipsWhenAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	newTestHandler(&stubService{}, nil).ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestRouter_CORS(t *testing.T) {
	handler := newTestHandler(&stubService{}, []string{"https://app.example"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/centers/c1/availability", nil)
	req.Header.Set("Origin", "https://app.example")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&stubService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
