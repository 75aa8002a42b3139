package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// OrderChannel identifies where an order originated.
type OrderChannel string

const (
	ChannelInStore   OrderChannel = "in_store"
	ChannelOnline    OrderChannel = "online"
	ChannelWholesale OrderChannel = "wholesale"
)

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID          string          `json:"id"`
	Channel     OrderChannel    `json:"channel"`
	Supermarket string          `json:"supermarket"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items"`
	PlacedAt    time.Time       `json:"placed_at"`
}

// OrderQuery narrows the order list endpoint.
type OrderQuery struct {
	Channel     OrderChannel
	Status      string
	Supermarket string
}

func (q OrderQuery) encode() string {
	values := url.Values{}
	if q.Channel != "" {
		values.Set("channel", string(q.Channel))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Supermarket != "" {
		values.Set("supermarket", q.Supermarket)
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

func (c *Client) ListOrders(ctx context.Context, query OrderQuery) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, "/orders"+query.encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
