package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product store used for development and tests.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*storedProduct
	seq      int64
	now      func() time.Time
}

type storedProduct struct {
	product  *domain.Product
	metadata projection.Metadata
	seq      int64
}

func NewRepository() *Repository {
	return &Repository{
		products: map[string]*storedProduct{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product, featuredLimit int) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.products {
		if id != product.ID && entry.product.Slug == product.Slug {
			return nil, ports.ErrSlugTaken
		}
	}
	existing, ok := r.products[product.ID]
	wasFeatured := ok && existing.product.IsFeatured
	if product.IsFeatured && !wasFeatured && featuredLimit > 0 {
		if r.countFeaturedLocked(product.ID) >= featuredLimit {
			return nil, ports.ErrFeaturedLimitReached
		}
	}

	stored := &storedProduct{product: product.Clone()}
	if ok {
		stored.metadata = existing.metadata
		stored.seq = existing.seq
	} else {
		r.seq++
		stored.seq = r.seq
	}
	stored.metadata = stored.metadata.Touched(r.now())
	r.products[product.ID] = stored
	return projectionCopy(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

func (r *Repository) GetBySlug(_ context.Context, slug string) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.products {
		if entry.product.Slug == slug {
			return projectionCopy(entry), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*storedProduct, 0, len(r.products))
	for _, entry := range r.products {
		p := entry.product
		if !filter.IncludeHidden && p.IsHidden {
			continue
		}
		if filter.FeaturedOnly && (!p.IsFeatured || p.IsHidden) {
			continue
		}
		if category := strings.TrimSpace(filter.Category); category != "" && p.Category != category {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(entries))
	for _, entry := range entries {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

func (r *Repository) SetHidden(_ context.Context, ids []string, hidden bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	timestamp := r.now()
	for _, id := range ids {
		entry, ok := r.products[id]
		if !ok {
			continue
		}
		entry.product.SetHidden(hidden)
		entry.metadata.UpdatedAt = timestamp
		count++
	}
	return count, nil
}

func (r *Repository) Delete(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, id := range ids {
		if _, ok := r.products[id]; ok {
			delete(r.products, id)
			count++
		}
	}
	return count, nil
}

func (r *Repository) countFeaturedLocked(excludeID string) int {
	count := 0
	for id, entry := range r.products {
		if id != excludeID && entry.product.IsFeatured && !entry.product.IsHidden {
			count++
		}
	}
	return count
}

func projectionCopy(entry *storedProduct) *projection.Projection[*domain.Product] {
	return &projection.Projection[*domain.Product]{
		Entity:   entry.product.Clone(),
		Metadata: entry.metadata,
	}
}
