package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/zenoti"
)

// AvailabilityService defines the interface for availability lookups
type AvailabilityService interface {
	GetAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*availability.AvailabilityResult, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	service  AvailabilityService
	location *time.Location
}

// NewAvailabilityHandler creates a new availability handler. Dates and naive timestamps in
// requests are read in location, the centers' local time.
func NewAvailabilityHandler(service AvailabilityService, location *time.Location) *AvailabilityHandler {
	if location == nil {
		location = time.UTC
	}
	return &AvailabilityHandler{
		service:  service,
		location: location,
	}
}

// availabilityParams mirrors the query string before conversion
type availabilityParams struct {
	CenterID     string   `json:"id" validate:"required"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	ServiceID    string   `json:"service_id" validate:"required"`
	GuestID      string   `json:"guest_id"`
	Duration     int      `json:"duration" validate:"gt=0,lte=1440"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	TherapistIDs []string `json:"therapist_ids" validate:"omitempty,dive,required"`
	Timezone     string   `json:"timezone" validate:"omitempty,timezone"`
}

// GetAvailability handles GET /api/centers/{id}/availability
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), query)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *AvailabilityHandler) parseQuery(r *http.Request) (*entities.AvailabilityQuery, error) {
	values := r.URL.Query()
	params := availabilityParams{
		CenterID:  r.PathValue("id"),
		Date:      values.Get("date"),
		ServiceID: values.Get("service_id"),
		GuestID:   values.Get("guest_id"),
		From:      values.Get("from"),
		To:        values.Get("to"),
		Timezone:  values.Get("timezone"),
	}

	if raw := values.Get("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.NewInvalidArgumentError("duration", "must be a whole number of minutes")
		}
		params.Duration = duration
	}
	for _, id := range strings.Split(values.Get("therapist_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			params.TherapistIDs = append(params.TherapistIDs, id)
		}
	}

	if err := validateStruct(params); err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(zenoti.DateLayout, params.Date, h.location)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("date", "must be YYYY-MM-DD")
	}

	query := &entities.AvailabilityQuery{
		CenterID:        params.CenterID,
		ServiceID:       params.ServiceID,
		GuestID:         params.GuestID,
		Date:            date,
		DurationMinutes: params.Duration,
		TherapistIDs:    params.TherapistIDs,
		Timezone:        params.Timezone,
	}
	if query.From, err = h.optionalTime("from", params.From); err != nil {
		return nil, err
	}
	if query.To, err = h.optionalTime("to", params.To); err != nil {
		return nil, err
	}
	return query, nil
}

func (h *AvailabilityHandler) optionalTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := zenoti.ParseTime(value, h.location)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(field, "must be RFC3339 or YYYY-MM-DDTHH:mm:ss")
	}
	return &t, nil
}
