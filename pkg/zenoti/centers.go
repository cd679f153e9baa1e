package zenoti

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"
)

// CentersService covers the /v1/centers endpoints.
type CentersService struct {
	client *Client
}

// List returns the organisation's centers. query is passed through as-is.
func (s *CentersService) List(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/centers", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Therapists returns the therapists employed at a center.
func (s *CentersService) Therapists(ctx context.Context, centerID string) (json.RawMessage, error) {
	if err := requireID("center_id", centerID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/centers/"+url.PathEscape(centerID)+"/therapists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns the service categories of a center including sub categories.
func (s *CentersService) Categories(ctx context.Context, centerID string) (json.RawMessage, error) {
	if err := requireID("center_id", centerID); err != nil {
		return nil, err
	}
	query := url.Values{"include_sub_categories": {"true"}}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/centers/"+url.PathEscape(centerID)+"/categories", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServicesService lists the services a center offers.
type ServicesService struct {
	client *Client
}

// List returns the services of a center.
func (s *ServicesService) List(ctx context.Context, centerID string) (json.RawMessage, error) {
	if err := requireID("center_id", centerID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/centers/"+url.PathEscape(centerID)+"/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
