package storefrontserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adminmemory "github.com/Apurer/go-gin-storefront/internal/domains/admin/adapters/memory"
	adminapp "github.com/Apurer/go-gin-storefront/internal/domains/admin/application"
	admindomain "github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	"github.com/Apurer/go-gin-storefront/internal/platform/ratelimit"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T, enforceAdmin bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := ordersapp.NewService(ordersmemory.NewRepository(), ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
	catalog := catalogapp.NewService(catalogmemory.NewRepository(), catalogapp.WithOrderReferences(orders))
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)
	creds, err := admindomain.NewCredentials("admin", hash)
	require.NoError(t, err)
	admin := NewAdminAPI(adminapp.NewService(creds, adminmemory.NewSessionStore()))

	handlers := ApiHandleFunctions{
		ProductAPI:   NewProductAPI(catalog),
		OrderAPI:     NewOrderAPI(orders, ordersworkflows.NewInlineOrderWorkflows(orders, nil)),
		AdminAPI:     admin,
		LoginLimiter: ratelimit.PerMinute(2, nil).Middleware(),
	}
	if enforceAdmin {
		handlers.AdminGuard = admin.RequireAdmin()
	}
	return &testServer{router: NewRouterWithGinEngine(gin.New(), handlers)}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth_BothPrefixes(t *testing.T) {
	s := newTestServer(t, false)
	for _, path := range []string{"/health", "/api/health"} {
		w := s.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"slug": "coral-hoodie", "name": "Coral Hoodie", "price": "€280", "category": "Hoodies", "isFeatured": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	id := created["id"].(string)
	assert.Equal(t, float64(0), created["discount"])
	assert.Equal(t, []any{}, created["images"])

	w = s.do(t, http.MethodGet, "/products/coral-hoodie", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/products/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(t, http.MethodPatch, "/products/"+id+"/visibility", map[string]any{"isHidden": true})
	require.Equal(t, http.StatusOK, w.Code)
	hidden := decode[map[string]any](t, w)
	assert.Equal(t, true, hidden["isHidden"])
	assert.Equal(t, false, hidden["isFeatured"])

	w = s.do(t, http.MethodGet, "/products", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 0)
	w = s.do(t, http.MethodGet, "/products?includeHidden=true", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
	w = s.do(t, http.MethodGet, "/products?includeHidden=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/products/"+id, map[string]any{"name": "Coral Hoodie II"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Coral Hoodie II", decode[map[string]any](t, w)["name"])
	assert.Equal(t, "€280", decode[map[string]any](t, w)["price"])

	w = s.do(t, http.MethodDelete, "/products/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Product deleted successfully"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/products/coral-hoodie", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
}

func TestProductErrors(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/products", map[string]any{"slug": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := map[string]any{"slug": "dup", "name": "Dup", "price": "€1"}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/products", body).Code)
	w = s.do(t, http.MethodPost, "/products", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/products/ghost/visibility", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPatch, "/products/ghost/visibility", map[string]any{"isHidden": false})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkActions(t *testing.T) {
	s := newTestServer(t, false)
	var ids []string
	for _, slug := range []string{"a", "b"} {
		w := s.do(t, http.MethodPost, "/products", map[string]any{"slug": slug, "name": slug, "price": "€10"})
		require.Equal(t, http.StatusOK, w.Code)
		ids = append(ids, decode[map[string]any](t, w)["id"].(string))
	}

	w := s.do(t, http.MethodPost, "/products/bulk-actions", map[string]any{"ids": ids, "action": "hide"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Successfully hidden 2 product(s)","count":2}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/products/bulk-actions", map[string]any{"ids": ids, "action": "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/products/bulk-actions", map[string]any{"ids": []string{}, "action": "hide"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_PlaceAndList(t *testing.T) {
	s := newTestServer(t, false)
	order := map[string]any{
		"customerName":  "Ada",
		"customerEmail": "ada@example.com",
		"items":         []map[string]any{{"productName": "Coral Hoodie", "price": "€280", "size": "M", "quantity": 1}},
		"total":         295,
	}

	w := s.do(t, http.MethodPost, "/api/orders", order, IdempotencyKeyHeader, "chk-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[map[string]any](t, w)
	assert.Equal(t, "pending", first["status"])

	w = s.do(t, http.MethodPost, "/api/orders", order, IdempotencyKeyHeader, "chk-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first["id"], decode[map[string]any](t, w)["id"])

	order["total"] = 1
	w = s.do(t, http.MethodPost, "/api/orders", order, IdempotencyKeyHeader, "chk-1")
	assert.Equal(t, http.StatusConflict, w.Code)

	order["items"] = []map[string]any{}
	w = s.do(t, http.MethodPost, "/api/orders", order)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestAdmin_LoginGuardAndRateLimit(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/products", map[string]any{"slug": "a", "name": "a", "price": "€1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/admin/login", map[string]any{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/admin/login", map[string]any{"username": "admin", "password": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, token)

	w = s.do(t, http.MethodGet, "/orders", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/admin/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/orders", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/admin/login", map[string]any{"username": "admin", "password": "admin"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
