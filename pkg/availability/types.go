package availability

import "time"

// CenterHours is one day's operating window of a center and its booking granularity.
type CenterHours struct {
	Start                      time.Time `json:"start_time"`
	End                        time.Time `json:"end_time"`
	AppointmentIntervalMinutes int       `json:"appointment_interval"`
}

// Range returns the operating window as a TimeRange.
func (h CenterHours) Range() TimeRange {
	return TimeRange{Start: h.Start, End: h.End}
}

// TherapistSchedule holds a therapist's on-duty blocks and the periods already booked or
// blocked for the day. Neither slice needs to be sorted.
type TherapistSchedule struct {
	TherapistID       string      `json:"id"`
	WorkRanges        []TimeRange `json:"schedule"`
	UnavailableRanges []TimeRange `json:"unavailable_times"`
}

// AppointmentRequest parameterises ComputeFiltered.
type AppointmentRequest struct {
	DurationMinutes int
	// RequestedWindow, when set, restricts slots to the grid-rounded window.
	RequestedWindow *TimeRange
	// TherapistIDs, when non-empty, keeps only these therapists.
	TherapistIDs []string
	// Timezone is an IANA identifier used to render FormattedSlots. Empty falls back to
	// Options.DefaultLocation.
	Timezone string
}

// TherapistAvailability is the engine output for one therapist.
type TherapistAvailability struct {
	TherapistID     string      `json:"id"`
	AvailableRanges []TimeRange `json:"available_times"`
	// Slots is strictly ascending and free of duplicates.
	Slots          []time.Time `json:"-"`
	FormattedSlots []string    `json:"slots"`
}

// AvailabilityResult aggregates every therapist's availability with the center hours echoed.
type AvailabilityResult struct {
	CenterHours CenterHours             `json:"center_hours"`
	Therapists  []TherapistAvailability `json:"therapists"`
}
