package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/api/", srv.Client(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}

func TestListProducts_EncodesFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Hoodies", r.URL.Query().Get("category"))
		assert.Equal(t, "true", r.URL.Query().Get("includeHidden"))
		_, _ = io.WriteString(w, `[{"id":"p1","slug":"coral-hoodie","name":"Coral","price":"€280","isHidden":true}]`)
	})

	products, err := client.ListProducts(context.Background(), ListProductsParams{Category: "Hoodies", IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].IsHidden)
}

func TestListProducts_OmitsEmptyFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `[]`)
	})
	products, err := client.ListProducts(context.Background(), ListProductsParams{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductBySlug_NotFoundProblem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/ghost", r.URL.Path)
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"type":"/problems/not-found","title":"Not Found","status":404,"detail":"Product not found"}`)
	})

	_, err := client.GetProductBySlug(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product not found", apiErr.Detail)
	assert.Equal(t, "/problems/not-found", apiErr.Type)
}

func TestAdminLogin_PlainErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid credentials"}`)
	})

	_, err := client.AdminLogin(context.Background(), "admin", "nope")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestSetFeatured_SendsOnlyFlagWithBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"isFeatured":true}`, string(body))
		_, _ = io.WriteString(w, `{"id":"p1","isFeatured":true}`)
	}, WithBearerToken("tok"))

	product, err := client.SetFeatured(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.True(t, product.IsFeatured)
}

func TestPlaceOrder_SendsIdempotencyKeyAndNumericTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chk-1", r.Header.Get("Idempotency-Key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(295), body["total"])
		_, _ = io.WriteString(w, `{"id":"o1","status":"pending","total":295,"items":[]}`)
	})

	order, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []OrderItem{{ProductName: "Coral", Price: "€280", Size: "M", Quantity: 1}},
		Total:         decimal.NewFromInt(295),
	}, WithIdempotencyKey("chk-1"))
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(295)))
}

func TestWithToken_CopiesClient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	authed := client.WithToken("fresh")
	require.NoError(t, authed.AdminLogout(context.Background()))
	assert.Empty(t, client.token)
}
