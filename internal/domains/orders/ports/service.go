package ports

import (
	"context"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
)

// Service exposes the order workflow use cases to adapters (inbound/driving port).
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error)
	GetOrderByID(ctx context.Context, id int64) (*types.OrderProjection, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*types.OrderProjection, error)
	GetAllOrders(ctx context.Context) ([]*types.OrderProjection, error)
	UpdateOrderStatus(ctx context.Context, input types.UpdateOrderStatusInput) (*types.OrderProjection, error)
	CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderProjection, error)
}
