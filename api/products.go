package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// NewProductRecord is the normalized shape the backend's create endpoint
// expects. Category, supplier and supermarket carry resolved identifiers,
// never display names.
type NewProductRecord struct {
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Supplier               string          `json:"supplier"`
	Supermarket            string          `json:"supermarket"`
	Quantity               decimal.Decimal `json:"quantity"`
	CostPrice              decimal.Decimal `json:"cost_price"`
	SellingPrice           decimal.Decimal `json:"selling_price"`
	Price                  decimal.Decimal `json:"price"`
	ExpiryDate             string          `json:"expiry_date"`
	Barcode                string          `json:"barcode"`
	Brand                  string          `json:"brand"`
	Weight                 string          `json:"weight"`
	Origin                 string          `json:"origin"`
	Description            string          `json:"description"`
	Location               string          `json:"location"`
	HalalCertified         bool            `json:"halal_certified"`
	HalalCertificationBody string          `json:"halal_certification_body"`
	SyncedWithPOS          bool            `json:"synced_with_pos"`
}

// Product is a backend product as returned by the read endpoints.
type Product struct {
	ID string `json:"id"`
	NewProductRecord
}

// ProductQuery narrows the product list endpoint.
type ProductQuery struct {
	Name        string
	Category    string
	Supermarket string
	Page        int
	PageSize    int
}

func (q ProductQuery) encode() string {
	values := url.Values{}
	if q.Name != "" {
		values.Set("name", q.Name)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Supermarket != "" {
		values.Set("supermarket", q.Supermarket)
	}
	if q.Page > 0 {
		values.Set("page", fmt.Sprintf("%d", q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", fmt.Sprintf("%d", q.PageSize))
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

func (c *Client) CreateProduct(ctx context.Context, record NewProductRecord) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPost, "/products", record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/products"+query.encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, record NewProductRecord) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}
