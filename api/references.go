package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Reference is a named backend entity (category or supplier) that product
// records point to by identifier.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is a supermarket/branch the backend knows about. Store identifiers
// are UUIDs in textual form.
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Reference, error) {
	var out []Reference
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Reference, error) {
	var out Reference
	if err := c.do(ctx, http.MethodPost, "/categories", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSuppliers(ctx context.Context) ([]Reference, error) {
	var out []Reference
	if err := c.do(ctx, http.MethodGet, "/suppliers", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, name string) (*Reference, error) {
	var out Reference
	if err := c.do(ctx, http.MethodPost, "/suppliers", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	var out []Store
	if err := c.do(ctx, http.MethodGet, "/supermarkets", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return out, nil
}

// SearchStores filters the store list by name on the backend side.
func (c *Client) SearchStores(ctx context.Context, name string) ([]Store, error) {
	var out []Store
	path := "/supermarkets?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to search stores: %w", err)
	}
	return out, nil
}
