package zenoti

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"
)

// InvoiceProduct is a retail product line on an invoice.
type InvoiceProduct struct {
	ProductID   string   `json:"product_id"`
	Quantity    int      `json:"quantity"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	TherapistID string   `json:"therapist_id,omitempty"`
}

// ProductInvoiceRequest creates a product-only invoice for a guest.
type ProductInvoiceRequest struct {
	CenterID string           `json:"center_id"`
	GuestID  string           `json:"guest_id"`
	Notes    string           `json:"notes,omitempty"`
	Products []InvoiceProduct `json:"products"`
}

// InvoicesService reads and edits invoices.
type InvoicesService struct {
	client *Client
}

// Get returns an invoice with its items and transactions expanded.
func (s *InvoicesService) Get(ctx context.Context, invoiceID string) (json.RawMessage, error) {
	if err := requireID("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	query := url.Values{"expand": {"InvoiceItems", "Transactions"}}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/invoices/"+url.PathEscape(invoiceID), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddProducts appends product lines to an invoice.
func (s *InvoicesService) AddProducts(ctx context.Context, invoiceID string, products []InvoiceProduct) (json.RawMessage, error) {
	if err := requireID("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	body := map[string]any{"products": products}
	var out json.RawMessage
	if err := s.client.Put(ctx, "/v1/invoices/"+url.PathEscape(invoiceID)+"/products", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveProduct deletes one invoice item.
func (s *InvoicesService) RemoveProduct(ctx context.Context, invoiceID, itemID, comments string) (json.RawMessage, error) {
	if err := requireID("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	if err := requireID("item_id", itemID); err != nil {
		return nil, err
	}
	body := map[string]string{"comments": comments}
	path := "/v1/invoices/" + url.PathEscape(invoiceID) + "/invoiceitems/" + url.PathEscape(itemID)
	var out json.RawMessage
	if err := s.client.Delete(ctx, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PayByCard pays the invoice with a stored card.
func (s *InvoicesService) PayByCard(ctx context.Context, payment CardPayment) (json.RawMessage, error) {
	return payInvoiceByCard(ctx, s.client, payment)
}

// ProductsService covers retail products.
type ProductsService struct {
	client *Client
}

// CreateInvoice opens an invoice for retail products.
func (s *ProductsService) CreateInvoice(ctx context.Context, req ProductInvoiceRequest) (json.RawMessage, error) {
	if err := requireID("center_id", req.CenterID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.client.Post(ctx, "/v1/invoices/products", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the products sold at a center.
func (s *ProductsService) List(ctx context.Context, centerID string) (json.RawMessage, error) {
	if err := requireID("center_id", centerID); err != nil {
		return nil, err
	}
	query := url.Values{"expand": {"preferences", "catalog_info"}}
	var out json.RawMessage
	if err := s.client.Get(ctx, "/v1/centers/"+url.PathEscape(centerID)+"/products", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
