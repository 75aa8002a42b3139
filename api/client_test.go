package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// refreshingTokenSource hands out a bad token until Refresh is called.
type refreshingTokenSource struct {
	refreshes int32
}

func (s *refreshingTokenSource) Token(ctx context.Context) (string, error) {
	if atomic.LoadInt32(&s.refreshes) > 0 {
		return "fresh-token", nil
	}
	return "stale-token", nil
}

func (s *refreshingTokenSource) Refresh(ctx context.Context) (string, error) {
	atomic.AddInt32(&s.refreshes, 1)
	return "fresh-token", nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, tokens, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Reference{{ID: "1", Name: "Grains"}})
	})

	client, _ := newTestClient(t, handler, NewStaticTokenSource("abc123"))

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, "Grains", categories[0].Name)
}

func TestClientRefreshesOnceOn401(t *testing.T) {
	var requests int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"token expired"}`)
			return
		}
		json.NewEncoder(w).Encode([]Reference{{ID: "1", Name: "Dairy"}})
	})

	tokens := &refreshingTokenSource{}
	client, _ := newTestClient(t, handler, tokens)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokens.refreshes))
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests), "expected exactly one retry")
}

func TestClientDoesNotRetryTwiceOn401(t *testing.T) {
	var requests int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"credentials invalid"}`)
	})

	client, _ := newTestClient(t, handler, &refreshingTokenSource{})

	_, err := client.ListCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests), "a rejected refresh must not loop")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "credentials invalid", apiErr.Message)
}

func TestClientSurfacesBackendErrorMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":"barcode already exists"}`)
	})

	client, _ := newTestClient(t, handler, NewStaticTokenSource("abc123"))

	_, err := client.CreateCategory(context.Background(), "Grains")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "barcode already exists", apiErr.Error())
}

func TestClientCreateProductPayload(t *testing.T) {
	var received NewProductRecord
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(Product{ID: "prod-1", NewProductRecord: received})
	})

	client, _ := newTestClient(t, handler, NewStaticTokenSource("abc123"))

	record := NewProductRecord{Name: "Rice", Category: "cat-1", Supplier: "sup-1", Supermarket: "store-1"}
	created, err := client.CreateProduct(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "prod-1", created.ID)
	assert.Equal(t, "Rice", received.Name)
	assert.Equal(t, "cat-1", received.Category)
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"m"}`, "m"},
		{`{"error":"e"}`, "e"},
		{`{"detail":"d"}`, "d"},
		{`plain text`, "plain text"},
		{`  spaced  `, "spaced"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractErrorMessage([]byte(tt.body)))
	}
}
