package zenoti

import (
	"context"

	"github.com/goccy/go-json"
)

// MembershipRequest sells a membership to a guest.
type MembershipRequest struct {
	CenterID     string `json:"center_id"`
	UserID       string `json:"user_id"`
	MembershipID string `json:"membership_ids"`
}

// MembershipsService sells memberships.
type MembershipsService struct {
	client *Client
}

// Create raises a membership invoice.
func (s *MembershipsService) Create(ctx context.Context, req MembershipRequest) (json.RawMessage, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/invoices/memberships", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GiftCardRequest buys a gift card from a template for a recipient.
type GiftCardRequest struct {
	CenterID       string
	GuestID        string
	TemplateID     string
	RecipientName  string
	RecipientEmail string
	Message        string
}

type giftCardItem struct {
	TemplateID string `json:"template_id"`
	Occasion   struct {
		Message string `json:"message"`
	} `json:"occassion"`
	Recipient struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"recepient"`
}

type giftCardPayload struct {
	CenterID  string         `json:"center_id"`
	GuestID   string         `json:"guest_id"`
	GiftCards []giftCardItem `json:"giftcards"`
}

// GiftCardsService sells gift cards.
type GiftCardsService struct {
	client *Client
}

// Confirm raises the gift card invoice and returns its id.
func (s *GiftCardsService) Confirm(ctx context.Context, req GiftCardRequest) (string, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return "", err
	}
	if err := requireID("template_id", req.TemplateID); err != nil {
		return "", err
	}

	// The platform spells these keys "occassion" and "recepient".
	item := giftCardItem{TemplateID: req.TemplateID}
	item.Occasion.Message = req.Message
	item.Recipient.Name = req.RecipientName
	item.Recipient.Email = req.RecipientEmail

	payload := giftCardPayload{
		CenterID:  req.CenterID,
		GuestID:   req.GuestID,
		GiftCards: []giftCardItem{item},
	}

	var out struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := s.client.Post(ctx, "/v1/invoices/giftcards", nil, payload, &out); err != nil {
		return "", err
	}
	return out.InvoiceID, nil
}
