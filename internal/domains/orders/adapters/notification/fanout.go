package notification

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Notifier = Fanout(nil)

// Fanout delivers an event to every notifier and joins their errors.
type Fanout []ports.Notifier

// New drops nil notifiers. With none left it returns ports.NoopNotifier.
func New(notifiers ...ports.Notifier) ports.Notifier {
	var out Fanout
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return ports.NoopNotifier
	}
	return out
}

func (f Fanout) OrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	var errs []error
	for _, n := range f {
		if err := n.OrderPlaced(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
