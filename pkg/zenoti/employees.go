package zenoti

import (
	"context"
	"net/url"
	"slices"
)

// TimeSpan is a start/end pair in platform local time, see ParseTime.
type TimeSpan struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CenterHours is a center's operating window for one day.
type CenterHours struct {
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	AppointmentInterval int    `json:"appointment_interval"`
}

// TherapistSlot is one therapist's schedule for the day.
type TherapistSlot struct {
	ID               string     `json:"Id"`
	Schedule         []TimeSpan `json:"schedule"`
	UnavailableTimes []TimeSpan `json:"unavailable_times"`
}

// TherapistAvailabilityRequest asks for therapist schedules able to perform a service.
type TherapistAvailabilityRequest struct {
	CenterID  string
	GuestID   string
	ServiceID string
	// Date is the center day, YYYY-MM-DD.
	Date string
}

// TherapistAvailabilityResponse is the raw schedule data for a center day.
type TherapistAvailabilityResponse struct {
	CenterHours    CenterHours     `json:"center_hours"`
	TherapistSlots []TherapistSlot `json:"therapist_slots"`
}

// FilterTherapists keeps only the listed therapists. An empty list keeps everyone.
func (r *TherapistAvailabilityResponse) FilterTherapists(ids []string) []TherapistSlot {
	if len(ids) == 0 {
		return r.TherapistSlots
	}
	return slices.DeleteFunc(slices.Clone(r.TherapistSlots), func(slot TherapistSlot) bool {
		return !slices.Contains(ids, slot.ID)
	})
}

// Employee identifies the therapist a block-out belongs to.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// BlockOutTime is a period a therapist is blocked from bookings.
type BlockOutTime struct {
	ID        string   `json:"block_out_time_id"`
	Employee  Employee `json:"employee"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// BlockOutTimesResponse lists a center's block-outs.
type BlockOutTimesResponse struct {
	BlockOutTimes []BlockOutTime `json:"block_out_times"`
}

type serviceRef struct {
	Service struct {
		ID string `json:"Id"`
	} `json:"Service"`
}

type slotBooking struct {
	GuestID  string       `json:"GuestId"`
	Services []serviceRef `json:"Services"`
}

type therapistAvailabilityPayload struct {
	CenterID     string        `json:"CenterId"`
	CenterDate   string        `json:"CenterDate"`
	SlotBookings []slotBooking `json:"SlotBookings"`
}

// EmployeesService reads therapist schedules.
type EmployeesService struct {
	client *Client
}

// TherapistAvailability fetches center hours and every qualified therapist's schedule for a day.
func (s *EmployeesService) TherapistAvailability(ctx context.Context, req TherapistAvailabilityRequest) (*TherapistAvailabilityResponse, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return nil, err
	}
	if err := requireID("service_id", req.ServiceID); err != nil {
		return nil, err
	}

	var service serviceRef
	service.Service.ID = req.ServiceID
	payload := therapistAvailabilityPayload{
		CenterID:   req.CenterID,
		CenterDate: req.Date,
		SlotBookings: []slotBooking{{
			GuestID:  req.GuestID,
			Services: []serviceRef{service},
		}},
	}

	var out TherapistAvailabilityResponse
	if err := s.client.Post(ctx, "/v1/appointments/therapist_availability", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlockOutTimes returns the block-outs of a center on date (YYYY-MM-DD). Block-outs are never
// served from the response cache.
func (s *EmployeesService) BlockOutTimes(ctx context.Context, centerID, date string) (*BlockOutTimesResponse, error) {
	if err := requireID("center_id", centerID); err != nil {
		return nil, err
	}
	query := url.Values{"start_date": {date}, "end_date": {date}}

	var out BlockOutTimesResponse
	if err := s.client.Get(SkipCache(ctx), "/v1/centers/"+url.PathEscape(centerID)+"/blockouttimes", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
