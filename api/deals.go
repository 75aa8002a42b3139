package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// ClearanceDeal is a temporary markdown on a product, used to move stock
// approaching its expiry date.
type ClearanceDeal struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	DealPrice decimal.Decimal `json:"deal_price"`
	StartsOn  string          `json:"starts_on"`
	EndsOn    string          `json:"ends_on"`
	Active    bool            `json:"active"`
}

type NewClearanceDeal struct {
	ProductID string          `json:"product_id"`
	DealPrice decimal.Decimal `json:"deal_price"`
	StartsOn  string          `json:"starts_on"`
	EndsOn    string          `json:"ends_on"`
}

func (c *Client) ListDeals(ctx context.Context, activeOnly bool) ([]ClearanceDeal, error) {
	path := "/deals"
	if activeOnly {
		path += "?active=true"
	}
	var out []ClearanceDeal
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return out, nil
}

func (c *Client) CreateDeal(ctx context.Context, deal NewClearanceDeal) (*ClearanceDeal, error) {
	var out ClearanceDeal
	if err := c.do(ctx, http.MethodPost, "/deals", deal, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDeal(ctx context.Context, id string, deal NewClearanceDeal) (*ClearanceDeal, error) {
	var out ClearanceDeal
	if err := c.do(ctx, http.MethodPut, "/deals/"+url.PathEscape(id), deal, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeactivateDeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/deals/"+url.PathEscape(id), nil, nil)
}
