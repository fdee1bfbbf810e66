package ports

import (
	"context"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs order placement: persist, then notify.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*orderstypes.OrderProjection, error)
}
