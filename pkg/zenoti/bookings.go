package zenoti

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"
)

// CreateBookingRequest opens a booking for one guest and one service.
type CreateBookingRequest struct {
	CenterID               string
	ServiceID              string
	GuestID                string
	TherapistID            string
	IsOnlyCatalogEmployees bool
	// Date is the center day, YYYY-MM-DD.
	Date string
}

type bookingItem struct {
	Item      idRef  `json:"item"`
	Therapist *idRef `json:"therapist,omitempty"`
}

type bookingGuest struct {
	ID    string        `json:"id"`
	Items []bookingItem `json:"items"`
}

type bookingPayload struct {
	CenterID               string         `json:"center_id"`
	IsOnlyCatalogEmployees bool           `json:"is_only_catalog_employees"`
	Date                   string         `json:"date"`
	Guests                 []bookingGuest `json:"guests"`
}

type idRef struct {
	ID string `json:"id"`
}

// Booking is the platform's answer to CreateBookingRequest.
type Booking struct {
	ID string `json:"id"`
}

// BookingsService drives the create / reserve / confirm booking flow.
type BookingsService struct {
	client *Client
}

// Create opens a booking. The returned id is used by the slot calls.
func (s *BookingsService) Create(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return nil, err
	}
	if err := requireID("service_id", req.ServiceID); err != nil {
		return nil, err
	}

	item := bookingItem{Item: idRef{ID: req.ServiceID}}
	if req.TherapistID != "" {
		item.Therapist = &idRef{ID: req.TherapistID}
	}
	payload := bookingPayload{
		CenterID:               req.CenterID,
		IsOnlyCatalogEmployees: req.IsOnlyCatalogEmployees,
		Date:                   req.Date,
		Guests:                 []bookingGuest{{ID: req.GuestID, Items: []bookingItem{item}}},
	}

	var out Booking
	if err := s.client.Post(ctx, "/v1/bookings", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Slots returns the bookable slots of an open booking.
func (s *BookingsService) Slots(ctx context.Context, bookingID string) (json.RawMessage, error) {
	if err := requireID("booking_id", bookingID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/bookings/"+url.PathEscape(bookingID)+"/slots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReserveSlot holds slotTime (platform local time) for the booking.
func (s *BookingsService) ReserveSlot(ctx context.Context, bookingID, slotTime string) (json.RawMessage, error) {
	if err := requireID("booking_id", bookingID); err != nil {
		return nil, err
	}
	body := map[string]string{"slot_time": slotTime}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/bookings/"+url.PathEscape(bookingID)+"/slots/reserve", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm turns a reserved slot into an appointment.
func (s *BookingsService) Confirm(ctx context.Context, bookingID, notes string) (json.RawMessage, error) {
	if err := requireID("booking_id", bookingID); err != nil {
		return nil, err
	}
	body := map[string]string{"notes": notes}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/bookings/"+url.PathEscape(bookingID)+"/slots/confirm", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel cancels the appointment behind an invoice.
func (s *BookingsService) Cancel(ctx context.Context, invoiceID, comments string) (json.RawMessage, error) {
	if err := requireID("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	body := map[string]string{"comments": comments}
	var out json.RawMessage
	if err := s.client.Put(ctx, "/v1/invoices/"+url.PathEscape(invoiceID)+"/cancel", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
