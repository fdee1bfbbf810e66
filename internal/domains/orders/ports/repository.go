package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders with their line items.
type Repository interface {
	// Save inserts or replaces the order and its lines.
	Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]*projection.Projection[*domain.Order], error)
	// DetachProducts nulls the product reference on lines pointing at ids and returns the number of lines changed.
	DetachProducts(ctx context.Context, productIDs []string) (int, error)
}
