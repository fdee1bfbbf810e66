package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence persists the order and then sends its confirmation.
// A confirmation that exhausts its retries is logged; the order stands.
func RunOrderPlacementSequence(ctx workflow.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "orderId", input.OrderID)
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	notifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}

	var projection orderstypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	if projection.Entity == nil {
		logger.Info("order placement sequence persisted without entity", "orderId", input.OrderID)
		return &projection, nil
	}
	logger.Info("order placement sequence persisted", "orderId", projection.Entity.ID)

	notifyInput := orderstypes.OrderIdentifier{ID: projection.Entity.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, notifyOptions), orderactivities.NotifyOrderPlacedActivityName, notifyInput).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence confirmation failed", "orderId", projection.Entity.ID, "error", err)
		return &projection, nil
	}
	logger.Info("order placement sequence confirmed", "orderId", projection.Entity.ID)
	return &projection, nil
}
