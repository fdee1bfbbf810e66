package storefrontserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// productParam names the path segment after /products/. It carries a slug on
// GET and a product id on mutations; gin requires one wildcard name per segment.
const productParam = "product"

// ProductAPI wires HTTP transport with the catalog service.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /products
// Lists products, optionally filtered by category; hidden products only with includeHidden=true
func (api *ProductAPI) ListProducts(c *gin.Context) {
	includeHidden := false
	if raw := strings.TrimSpace(c.Query("includeHidden")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, errors.New("includeHidden must be a boolean"))
			return
		}
		includeHidden = parsed
	}
	input := catalogtypes.ListProductsInput{Category: c.Query("category"), IncludeHidden: includeHidden}
	result, err := api.service.ListProducts(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /products/featured
// Lists visible featured products
func (api *ProductAPI) FeaturedProducts(c *gin.Context) {
	result, err := api.service.FeaturedProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /products/:slug
// Finds a product by slug, hidden or not
func (api *ProductAPI) GetProductBySlug(c *gin.Context) {
	product, err := api.service.GetBySlug(c.Request.Context(), catalogtypes.ProductSlug{Slug: c.Param(productParam)})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /products
// Creates a product
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := catalogtypes.CreateProductInput{ProductMutationInput: producthttpmapper.ToMutationInput(payload)}
	saved, err := api.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(saved))
}

// Put /products/:id
// Updates the supplied fields of a product; a supplied variants list replaces the existing one
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := catalogtypes.UpdateProductInput{ID: c.Param(productParam), ProductMutationInput: producthttpmapper.ToMutationInput(payload)}
	updated, err := api.service.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(updated))
}

// Patch /products/:id/visibility
// Hides or shows a product; hiding clears featured
func (api *ProductAPI) SetVisibility(c *gin.Context) {
	var payload producthttpmapper.Visibility
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if payload.IsHidden == nil {
		respondBadRequest(c, errors.New("isHidden is required"))
		return
	}
	input := catalogtypes.SetVisibilityInput{ID: c.Param(productParam), Hidden: *payload.IsHidden}
	updated, err := api.service.SetVisibility(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(updated))
}

// Delete /products/:id
// Deletes a product after detaching it from order history
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), catalogtypes.ProductIdentifier{ID: c.Param(productParam)}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.DeleteResponse{Success: true, Message: "Product deleted successfully"})
}

// Post /products/bulk-actions
// Hides, shows or deletes several products at once
func (api *ProductAPI) BulkAction(c *gin.Context) {
	var payload producthttpmapper.BulkActionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.BulkAction(c.Request.Context(), producthttpmapper.ToBulkActionInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromBulkActionResult(result))
}
