package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Admin routes pass through ApiHandleFunctions.AdminGuard when one is set.
	Admin bool
}

// ApiHandleFunctions collects the handlers and route middleware.
type ApiHandleFunctions struct {
	ProductAPI ProductAPI
	OrderAPI   OrderAPI
	AdminAPI   AdminAPI
	HealthAPI  HealthAPI

	// AdminGuard protects catalog mutations and the order list. Nil leaves them open.
	AdminGuard gin.HandlerFunc
	// LoginLimiter throttles POST /admin/login. Nil disables throttling.
	LoginLimiter gin.HandlerFunc
}

// RoutePrefixes are the mount points; the storefront front end calls /api/...
var RoutePrefixes = []string{"", "/api"}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine under every prefix.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, prefix := range RoutePrefixes {
		group := router.Group(prefix)
		for _, route := range getRoutes(handleFunctions) {
			handlers := route.handlers(handleFunctions)
			switch route.Method {
			case http.MethodGet:
				group.GET(route.Pattern, handlers...)
			case http.MethodPost:
				group.POST(route.Pattern, handlers...)
			case http.MethodPut:
				group.PUT(route.Pattern, handlers...)
			case http.MethodPatch:
				group.PATCH(route.Pattern, handlers...)
			case http.MethodDelete:
				group.DELETE(route.Pattern, handlers...)
			}
		}
	}
	return router
}

func (r Route) handlers(fns ApiHandleFunctions) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if r.Admin && fns.AdminGuard != nil {
		chain = append(chain, fns.AdminGuard)
	}
	if r.Name == "AdminLogin" && fns.LoginLimiter != nil {
		chain = append(chain, fns.LoginLimiter)
	}
	handler := r.HandlerFunc
	if handler == nil {
		handler = DefaultHandleFunc
	}
	return append(chain, handler)
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	product := "/products/:" + productParam
	return []Route{
		{Name: "Health", Method: http.MethodGet, Pattern: "/health", HandlerFunc: handleFunctions.HealthAPI.Health},
		{Name: "ListProducts", Method: http.MethodGet, Pattern: "/products", HandlerFunc: handleFunctions.ProductAPI.ListProducts},
		{Name: "FeaturedProducts", Method: http.MethodGet, Pattern: "/products/featured", HandlerFunc: handleFunctions.ProductAPI.FeaturedProducts},
		{Name: "GetProductBySlug", Method: http.MethodGet, Pattern: product, HandlerFunc: handleFunctions.ProductAPI.GetProductBySlug},
		{Name: "CreateProduct", Method: http.MethodPost, Pattern: "/products", HandlerFunc: handleFunctions.ProductAPI.CreateProduct, Admin: true},
		{Name: "BulkAction", Method: http.MethodPost, Pattern: "/products/bulk-actions", HandlerFunc: handleFunctions.ProductAPI.BulkAction, Admin: true},
		{Name: "UpdateProduct", Method: http.MethodPut, Pattern: product, HandlerFunc: handleFunctions.ProductAPI.UpdateProduct, Admin: true},
		{Name: "SetVisibility", Method: http.MethodPatch, Pattern: product + "/visibility", HandlerFunc: handleFunctions.ProductAPI.SetVisibility, Admin: true},
		{Name: "DeleteProduct", Method: http.MethodDelete, Pattern: product, HandlerFunc: handleFunctions.ProductAPI.DeleteProduct, Admin: true},
		{Name: "PlaceOrder", Method: http.MethodPost, Pattern: "/orders", HandlerFunc: handleFunctions.OrderAPI.PlaceOrder},
		{Name: "ListOrders", Method: http.MethodGet, Pattern: "/orders", HandlerFunc: handleFunctions.OrderAPI.ListOrders, Admin: true},
		{Name: "AdminLogin", Method: http.MethodPost, Pattern: "/admin/login", HandlerFunc: handleFunctions.AdminAPI.Login},
		{Name: "AdminLogout", Method: http.MethodPost, Pattern: "/admin/logout", HandlerFunc: handleFunctions.AdminAPI.Logout},
	}
}
