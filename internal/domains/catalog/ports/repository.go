package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrSlugTaken indicates another product already uses the slug.
	ErrSlugTaken = errors.New("product slug already in use")
	// ErrFeaturedLimitReached indicates the featured cap would be exceeded.
	ErrFeaturedLimitReached = errors.New("featured product limit reached")
)

// ListFilter narrows repository listings. Results are ordered by creation time, oldest first.
type ListFilter struct {
	Category      string
	IncludeHidden bool
	FeaturedOnly  bool
	Limit         int
}

type Repository interface {
	// Save inserts or replaces a product together with its variants. When the
	// product becomes featured and featuredLimit > 0, the count of other visible
	// featured products is checked in the same critical section as the write.
	Save(ctx context.Context, product *domain.Product, featuredLimit int) (*projection.Projection[*domain.Product], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error)
	GetBySlug(ctx context.Context, slug string) (*projection.Projection[*domain.Product], error)
	List(ctx context.Context, filter ListFilter) ([]*projection.Projection[*domain.Product], error)
	// SetHidden updates visibility for every listed id; hiding also clears featured.
	// It returns the number of products matched.
	SetHidden(ctx context.Context, ids []string, hidden bool) (int, error)
	// Delete removes the listed products and their variants, returning the number removed.
	Delete(ctx context.Context, ids []string) (int, error)
}

// OrderReferences detaches historical order lines from products about to be deleted.
type OrderReferences interface {
	DetachProducts(ctx context.Context, productIDs []string) error
}

// NoopOrderReferences is used when no order store is wired.
var NoopOrderReferences OrderReferences = noopOrderReferences{}

type noopOrderReferences struct{}

func (noopOrderReferences) DetachProducts(context.Context, []string) error { return nil }
