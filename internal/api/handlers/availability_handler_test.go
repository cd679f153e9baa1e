package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
)

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*availability.AvailabilityResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.AvailabilityResult), args.Error(1)
}

func serve(t *testing.T, handler *AvailabilityHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/centers/{id}/availability", handler.GetAvailability)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAvailabilityHandler_GetAvailability(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	service := new(MockAvailabilityService)
	handler := NewAvailabilityHandler(service, loc)

	from := time.Date(2026, 3, 27, 15, 0, 0, 0, loc)
	to := time.Date(2026, 3, 27, 16, 0, 0, 0, time.UTC).In(loc)
	want := &entities.AvailabilityQuery{
		CenterID:        "c1",
		ServiceID:       "s1",
		GuestID:         "g1",
		Date:            time.Date(2026, 3, 27, 0, 0, 0, 0, loc),
		DurationMinutes: 60,
		From:            &from,
		To:              &to,
		TherapistIDs:    []string{"t1", "t2"},
		Timezone:        "America/New_York",
	}

	result := &availability.AvailabilityResult{
		Therapists: []availability.TherapistAvailability{{TherapistID: "t1", FormattedSlots: []string{"2026-03-27T15:00:00"}}},
	}
	service.On("GetAvailability", mock.Anything, mock.MatchedBy(func(q *entities.AvailabilityQuery) bool {
		return assert.ObjectsAreEqual(want.TherapistIDs, q.TherapistIDs) &&
			q.CenterID == want.CenterID && q.ServiceID == want.ServiceID && q.GuestID == want.GuestID &&
			q.Date.Equal(want.Date) && q.DurationMinutes == 60 &&
			q.From.Equal(from) && q.To.Equal(to) && q.Timezone == want.Timezone
	})).Return(result, nil)

	rec := serve(t, handler, "/api/centers/c1/availability?date=2026-03-27&service_id=s1&guest_id=g1&duration=60"+
		"&from=2026-03-27T15:00:00&to=2026-03-27T16:00:00Z&therapist_ids=t1,%20t2&timezone=America/New_York")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Therapists []struct {
			ID    string   `json:"id"`
			Slots []string `json:"slots"`
		} `json:"therapists"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Therapists, 1)
	assert.Equal(t, []string{"2026-03-27T15:00:00"}, body.Therapists[0].Slots)
	service.AssertExpectations(t)
}

func TestAvailabilityHandler_RejectsBadQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing date", "service_id=s1&duration=60", "date"},
		{"malformed date", "date=27-03-2026&service_id=s1&duration=60", "date"},
		{"missing service", "date=2026-03-27&duration=60", "service_id"},
		{"zero duration", "date=2026-03-27&service_id=s1&duration=0", "duration"},
		{"non numeric duration", "date=2026-03-27&service_id=s1&duration=hour", "duration"},
		{"bad timezone", "date=2026-03-27&service_id=s1&duration=60&timezone=Mars/Olympus", "timezone"},
		{"bad from", "date=2026-03-27&service_id=s1&duration=60&from=noon", "from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockAvailabilityService)
			rec := serve(t, NewAvailabilityHandler(service, nil), "/api/centers/c1/availability?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.field, decodeError(t, rec).Field)
			service.AssertNotCalled(t, "GetAvailability", mock.Anything, mock.Anything)
		})
	}
}

func TestAvailabilityHandler_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"invalid argument", apperrors.NewInvalidArgumentError("requestedWindow", "start is after end"), http.StatusBadRequest, "requestedWindow"},
		{"not found", apperrors.NewNotFoundError("center not found"), http.StatusNotFound, ""},
		{"upstream", apperrors.NewExternalStatusError(503, "maintenance"), http.StatusBadGateway, ""},
		{"internal", apperrors.NewInternalError("boom", nil), http.StatusInternalServerError, ""},
		{"plain", assert.AnError, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockAvailabilityService)
			service.On("GetAvailability", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(t, NewAvailabilityHandler(service, nil), "/api/centers/c1/availability?date=2026-03-27&service_id=s1&duration=60")

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.field, body.Field)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
			}
		})
	}
}
