package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// Service orchestrates the order use cases.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	notifier    ports.Notifier
	newID       func() string
}

type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key handling on PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithNotifier(notifier ports.Notifier) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithIDGenerator overrides uuid-based order and line identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: ports.NoopNotifier,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates and persists a pending order. With an idempotency key, a replay of the
// same payload returns the original order and a different payload is a conflict.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		saved, err := s.repo.Save(ctx, order)
		if err != nil {
			return nil, mapError(err)
		}
		return saved, nil
	}

	hash, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, fmt.Errorf("fingerprint order: %w", err)
	}
	record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: order.ID})
	if err != nil {
		return nil, mapError(err)
	}
	if record.OrderID != order.ID {
		existing, err := s.repo.GetByID(ctx, record.OrderID)
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrIdempotencyInProgress)
		}
		if err != nil {
			return nil, mapError(err)
		}
		return existing, nil
	}

	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("release idempotency key: %w", releaseErr))
		}
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*types.OrderProjection, error) {
	result, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// ListOrders returns every order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// NotifyOrderPlaced loads the persisted order and hands the OrderPlaced event to the notifier.
func (s *Service) NotifyOrderPlaced(ctx context.Context, input types.OrderIdentifier) error {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return mapError(err)
	}
	event := domain.NewOrderPlaced(current.Entity, current.Metadata.CreatedAt)
	if err := s.notifier.OrderPlaced(ctx, event); err != nil {
		return fmt.Errorf("notify order %s: %w", input.ID, err)
	}
	return nil
}

// DetachProducts nulls product references on historical lines. It satisfies the catalog's order references port.
func (s *Service) DetachProducts(ctx context.Context, productIDs []string) error {
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.repo.DetachProducts(ctx, ids); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) buildOrder(input types.PlaceOrderInput) (*domain.Order, error) {
	id := strings.TrimSpace(input.OrderID)
	if id == "" {
		id = s.newID()
	}
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		line := domain.OrderItem{
			ID:          s.newID(),
			ProductName: strings.TrimSpace(item.ProductName),
			Price:       strings.TrimSpace(item.Price),
			Size:        strings.TrimSpace(item.Size),
			Quantity:    item.Quantity,
		}
		if item.ProductID != nil && strings.TrimSpace(*item.ProductID) != "" {
			ref := strings.TrimSpace(*item.ProductID)
			line.ProductID = &ref
		}
		items = append(items, line)
	}
	return domain.NewOrder(id, input.CustomerName, input.CustomerEmail, input.Total, items)
}

var _ ports.Service = (*Service)(nil)
