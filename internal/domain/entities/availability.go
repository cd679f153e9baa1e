package entities

import (
	"time"

	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
)

// AvailabilityQuery describes one availability lookup for a center day
type AvailabilityQuery struct {
	CenterID        string     `json:"center_id"`
	ServiceID       string     `json:"service_id"`
	GuestID         string     `json:"guest_id"`
	Date            time.Time  `json:"date"`
	DurationMinutes int        `json:"duration"`
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	TherapistIDs    []string   `json:"therapist_ids,omitempty"`
	Timezone        string     `json:"timezone,omitempty"`
}

// Window returns the requested [From, To] window, or nil when neither bound is set.
// A missing bound defaults to the start or end of the queried day.
func (q *AvailabilityQuery) Window() *availability.TimeRange {
	if q.From == nil && q.To == nil {
		return nil
	}
	dayStart := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	window := availability.TimeRange{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}
	if q.From != nil {
		window.Start = *q.From
	}
	if q.To != nil {
		window.End = *q.To
	}
	return &window
}

// CenterSchedule is the raw schedule data of a center day as reported by the booking platform
type CenterSchedule struct {
	CenterID   string                           `json:"center_id"`
	Hours      availability.CenterHours         `json:"center_hours"`
	Therapists []availability.TherapistSchedule `json:"therapists"`
}

// BlockOut is a period a therapist cannot be booked
type BlockOut struct {
	ID          string                 `json:"id"`
	TherapistID string                 `json:"therapist_id"`
	Range       availability.TimeRange `json:"range"`
}
