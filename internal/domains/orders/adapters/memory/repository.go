package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in memory for development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*storedOrder
	seq    int64
	now    func() time.Time
}

type storedOrder struct {
	order    *domain.Order
	metadata projection.Metadata
	seq      int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*storedOrder{},
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := &storedOrder{order: order.Clone()}
	if existing, ok := r.orders[order.ID]; ok {
		stored.metadata = existing.metadata
		stored.seq = existing.seq
	} else {
		r.seq++
		stored.seq = r.seq
	}
	stored.metadata = stored.metadata.Touched(r.now())
	r.orders[order.ID] = stored
	return projectionCopy(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*storedOrder, 0, len(r.orders))
	for _, entry := range r.orders {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.metadata.CreatedAt.Equal(b.metadata.CreatedAt) {
			return a.metadata.CreatedAt.After(b.metadata.CreatedAt)
		}
		return a.seq > b.seq
	})
	list := make([]*projection.Projection[*domain.Order], 0, len(entries))
	for _, entry := range entries {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

func (r *Repository) DetachProducts(_ context.Context, productIDs []string) (int, error) {
	ids := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		ids[id] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	timestamp := r.now()
	for _, entry := range r.orders {
		if n := entry.order.DetachProducts(ids); n > 0 {
			changed += n
			entry.metadata.UpdatedAt = timestamp
		}
	}
	return changed, nil
}

func projectionCopy(entry *storedOrder) *projection.Projection[*domain.Order] {
	return &projection.Projection[*domain.Order]{
		Entity:   entry.order.Clone(),
		Metadata: entry.metadata,
	}
}
