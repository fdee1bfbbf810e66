// Package storefront is the typed HTTP client for the storefront API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

const idempotencyKeyHeader = "Idempotency-Key"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Client calls the storefront API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBearerToken authenticates admin calls.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient instantiates the client. A nil httpClient gets a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("storefront base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse storefront base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{baseURL: parsed, httpClient: httpClient}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// WithToken returns a copy of the client authenticated with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// ListProducts fetches GET /products.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, error) {
	query := url.Values{}
	if category := strings.TrimSpace(params.Category); category != "" {
		if err := addQueryParam(query, "category", category); err != nil {
			return nil, err
		}
	}
	if params.IncludeHidden {
		if err := addQueryParam(query, "includeHidden", true); err != nil {
			return nil, err
		}
	}
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products/featured", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductBySlug returns an *APIError with status 404 for unknown slugs.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(slug), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductUpdate) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct sends only the non-nil fields of update.
func (c *Client) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, update, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SetFeatured updates only isFeatured.
func (c *Client) SetFeatured(ctx context.Context, id string, featured bool) (*Product, error) {
	return c.UpdateProduct(ctx, id, ProductUpdate{IsFeatured: &featured})
}

func (c *Client) SetVisibility(ctx context.Context, id string, hidden bool) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id)+"/visibility", nil, visibilityRequest{IsHidden: hidden}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) BulkAction(ctx context.Context, ids []string, action BulkAction) (*BulkActionResult, error) {
	var result BulkActionResult
	if err := c.do(ctx, http.MethodPost, "/products/bulk-actions", nil, bulkActionRequest{IDs: ids, Action: action}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PlaceOrderOption configures PlaceOrder.
type PlaceOrderOption func(*http.Request)

// WithIdempotencyKey makes retries of the same checkout resolve to one order.
func WithIdempotencyKey(key string) PlaceOrderOption {
	return func(req *http.Request) {
		if key = strings.TrimSpace(key); key != "" {
			req.Header.Set(idempotencyKeyHeader, key)
		}
	}
}

func (c *Client) PlaceOrder(ctx context.Context, order PlaceOrderRequest, opts ...PlaceOrderOption) (*Order, error) {
	var placed Order
	edits := make([]func(*http.Request), 0, len(opts))
	for _, opt := range opts {
		if opt != nil {
			edits = append(edits, opt)
		}
	}
	if err := c.do(ctx, http.MethodPost, "/orders", nil, order, &placed, edits...); err != nil {
		return nil, err
	}
	return &placed, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminLogin exchanges credentials for a bearer token.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) AdminLogout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/logout", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, edits ...func(*http.Request)) error {
	if c == nil || c.baseURL == nil {
		return errors.New("storefront client not configured")
	}
	target := *c.baseURL
	target.Path = strings.TrimSuffix(target.Path, "/") + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, edit := range edits {
		edit(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func addQueryParam(query url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	for k, values := range parsed {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	return nil
}
