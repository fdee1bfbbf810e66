package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const (
	// InvalidOrderErrorType marks rejected input; the activity is not retried.
	InvalidOrderErrorType = "orders.InvalidOrder"
	// OrderConflictErrorType marks an idempotency clash; the activity is not retried.
	OrderConflictErrorType = "orders.Conflict"

	// PersistOrderActivityName stores the order without sending any confirmation.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// NotifyOrderPlacedActivityName sends the confirmation for a stored order.
	NotifyOrderPlacedActivityName = "orders.activities.NotifyOrderPlaced"
)

// Activities groups the activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder places the order. The input carries a pre-assigned order ID so retries are upserts.
func (a *Activities) PersistOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "orderId", input.OrderID, "lines", len(input.Items))
	projection, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "orderId", input.OrderID, "error", err)
		switch {
		case errors.Is(err, ordersapp.ErrInvalidInput):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidOrderErrorType, err)
		case errors.Is(err, ordersapp.ErrConflict):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), OrderConflictErrorType, err)
		}
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// NotifyOrderPlaced delivers the confirmation once; a completed attempt is remembered in heartbeat details.
func (a *Activities) NotifyOrderPlaced(ctx context.Context, input orderstypes.OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order notify activity not initialized", "orderId", input.ID)
		return errors.New("order notify activity not initialized")
	}

	var hb notifyHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("NotifyOrderPlaced already completed in prior attempt; skipping", "orderId", input.ID)
		return nil
	}

	logger.Info("NotifyOrderPlaced activity started", "orderId", input.ID)
	if err := a.service.NotifyOrderPlaced(ctx, input); err != nil {
		logger.Error("NotifyOrderPlaced failed", "orderId", input.ID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, notifyHeartbeat{Completed: true})
	logger.Info("NotifyOrderPlaced activity completed", "orderId", input.ID)
	return nil
}

type notifyHeartbeat struct {
	Completed bool
}
