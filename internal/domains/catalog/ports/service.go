package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
)

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*catalogtypes.ProductProjection, error)
	FeaturedProducts(ctx context.Context) ([]*catalogtypes.ProductProjection, error)
	GetBySlug(ctx context.Context, input catalogtypes.ProductSlug) (*catalogtypes.ProductProjection, error)
	GetByID(ctx context.Context, input catalogtypes.ProductIdentifier) (*catalogtypes.ProductProjection, error)
	CreateProduct(ctx context.Context, input catalogtypes.CreateProductInput) (*catalogtypes.ProductProjection, error)
	UpdateProduct(ctx context.Context, input catalogtypes.UpdateProductInput) (*catalogtypes.ProductProjection, error)
	SetVisibility(ctx context.Context, input catalogtypes.SetVisibilityInput) (*catalogtypes.ProductProjection, error)
	DeleteProduct(ctx context.Context, input catalogtypes.ProductIdentifier) error
	BulkAction(ctx context.Context, input catalogtypes.BulkActionInput) (*catalogtypes.BulkActionResult, error)
}
