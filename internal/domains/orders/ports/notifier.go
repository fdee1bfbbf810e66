package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// Notifier tells the outside world about a placed order (email, event bus).
type Notifier interface {
	OrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}

// NoopNotifier is used when no notification channel is configured.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(context.Context, domain.OrderPlaced) error { return nil }
