package zenoti

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"
)

// Phone is a guest phone number.
type Phone struct {
	CountryCode int    `json:"country_code,omitempty"`
	Number      string `json:"number"`
}

// PersonalInfo holds a guest's contact details.
type PersonalInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	Email       string `json:"email,omitempty"`
	MobilePhone *Phone `json:"mobile_phone,omitempty"`
}

// CreateGuestRequest registers a guest at a center.
type CreateGuestRequest struct {
	CenterID     string       `json:"center_id"`
	Code         string       `json:"code,omitempty"`
	PersonalInfo PersonalInfo `json:"personal_info"`
}

// AddCardRequest starts the hosted card capture flow for a guest.
type AddCardRequest struct {
	GuestID         string `json:"-"`
	CenterID        string `json:"center_id"`
	RedirectURL     string `json:"redirect_uri"`
	ShareCardsToWeb bool   `json:"share_cards_to_web"`
	Protocol        string `json:"protocol,omitempty"`
}

// CardPayment charges a stored card against an invoice.
type CardPayment struct {
	InvoiceID string `json:"-"`
	CardID    string `json:"account_id"`
	CenterID  string `json:"center_id"`
}

// GuestsService covers guest registration and stored cards.
type GuestsService struct {
	client *Client
}

// Create registers a new guest.
func (s *GuestsService) Create(ctx context.Context, req CreateGuestRequest) (json.RawMessage, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/guests", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCard returns the hosted page used to attach a card to the guest.
func (s *GuestsService) AddCard(ctx context.Context, req AddCardRequest) (json.RawMessage, error) {
	if err := requireID("guest_id", req.GuestID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/guests/"+url.PathEscape(req.GuestID)+"/accounts", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cards lists the guest's stored cards usable at a center.
func (s *GuestsService) Cards(ctx context.Context, guestID, centerID string) (json.RawMessage, error) {
	if err := requireID("guest_id", guestID); err != nil {
		return nil, err
	}
	query := url.Values{"center_id": {centerID}}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/guests/"+url.PathEscape(guestID)+"/accounts", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PayByCard pays an invoice with one of the guest's stored cards.
func (s *GuestsService) PayByCard(ctx context.Context, payment CardPayment) (json.RawMessage, error) {
	return payInvoiceByCard(ctx, s.client, payment)
}

func payInvoiceByCard(ctx context.Context, client *Client, payment CardPayment) (json.RawMessage, error) {
	if err := requireID("invoice_id", payment.InvoiceID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := client.Post(ctx, "/v1/invoices/"+url.PathEscape(payment.InvoiceID)+"/online_payments", nil, payment, &out); err != nil {
		return nil, err
	}
	return out, nil
}
