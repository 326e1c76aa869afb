package types

import (
	"time"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
)

// Metadata holds the timestamps the store keeps alongside an order.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderProjection is an order as read back from the store.
type OrderProjection struct {
	Entity   *domain.Order
	Metadata Metadata
}

// NewOrderProjection wraps an aggregate with persistence metadata.
func NewOrderProjection(order *domain.Order, createdAt, updatedAt time.Time) *OrderProjection {
	if order == nil {
		return nil
	}
	return &OrderProjection{
		Entity:   order,
		Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt},
	}
}

// ItemRequest is one requested line: a product and how many units of it.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	UserID          int64
	Items           []ItemRequest
	ShippingAddress string
}

// UpdateOrderStatusInput requests a status change for an order.
type UpdateOrderStatusInput struct {
	OrderID int64
	Status  domain.Status
}

// CancelOrderInput requests cancellation on behalf of a user.
type CancelOrderInput struct {
	OrderID int64
	UserID  int64
}
