// Package cart holds the shopper's line items and mirrors them to a Storage
// after every mutation.
package cart

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/shared/pricing"
)

// Store is the authoritative cart state for one shopper session.
type Store struct {
	mu         sync.Mutex
	items      []Item
	storage    Storage
	storageKey string
	logger     *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// NewStore rehydrates the cart from storage. A missing, unreadable or malformed
// snapshot yields an empty cart.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		items:      []Item{},
		storage:    storage,
		storageKey: DefaultStorageKey,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.storage == nil {
		return
	}
	data, err := s.storage.Load(s.storageKey)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			s.logger.Warn("failed to read cart snapshot, starting empty",
				slog.String("key", s.storageKey), slog.String("error", err.Error()))
		}
		return
	}
	items, err := UnmarshalSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding malformed cart snapshot",
			slog.String("key", s.storageKey), slog.String("error", err.Error()))
		return
	}
	s.items = items
}

// AddToCart merges into the line for (variantSlug, size) or appends a new line.
// Non-positive quantities leave the cart untouched.
func (s *Store) AddToCart(product ProductSnapshot, variantSlug, size string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Key{VariantSlug: variantSlug, Size: size}
	if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, Item{Product: product, Slug: variantSlug, Size: size, Quantity: quantity})
	}
	s.persist()
}

// RemoveFromCart drops the matching line. Absent keys are ignored.
func (s *Store) RemoveFromCart(variantSlug, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(Key{VariantSlug: variantSlug, Size: size})
	s.persist()
}

// UpdateQuantity sets the absolute quantity of a line; quantity <= 0 removes it.
func (s *Store) UpdateQuantity(variantSlug, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Key{VariantSlug: variantSlug, Size: size}
	if quantity <= 0 {
		s.remove(key)
	} else if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity = quantity
	}
	s.persist()
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	s.persist()
}

// CartTotal sums listed price × quantity. Product discounts are not applied.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		price := pricing.MustParseDisplayPrice(item.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CartCount sums quantities across lines.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(key Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) remove(key Key) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// persist writes the full snapshot. Failures are logged and never surfaced.
func (s *Store) persist() {
	if s.storage == nil {
		return
	}
	data, err := MarshalSnapshot(s.items)
	if err == nil {
		err = s.storage.Save(s.storageKey, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist cart",
			slog.String("key", s.storageKey), slog.String("error", err.Error()))
	}
}
