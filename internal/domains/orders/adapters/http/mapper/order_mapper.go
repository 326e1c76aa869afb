package mapper

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
)

// OrderItemRequest is one requested line in a create payload.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
}

// OrderItem is the HTTP representation of an order line.
type OrderItem struct {
	ID          int64       `json:"id"`
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
	Subtotal    json.Number `json:"subtotal"`
}

// Order is the HTTP representation of an order projection.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Status          string      `json:"status"`
	TotalAmount     json.Number `json:"totalAmount"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
	CreatedAt       *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time  `json:"updatedAt,omitempty"`
}

// ToCreateOrderInput converts a create payload for the given user.
func ToCreateOrderInput(userID int64, req CreateOrderRequest) types.CreateOrderInput {
	items := make([]types.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, types.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return types.CreateOrderInput{UserID: userID, Items: items, ShippingAddress: req.ShippingAddress}
}

// FromProjection converts an order projection to the transport representation.
func FromProjection(projection *types.OrderProjection) Order {
	if projection == nil || projection.Entity == nil {
		return Order{}
	}
	order := fromDomain(projection.Entity)
	order.CreatedAt = timePtr(projection.Metadata.CreatedAt)
	order.UpdatedAt = timePtr(projection.Metadata.UpdatedAt)
	return order
}

// FromProjectionList converts a list of projections, never returning nil.
func FromProjectionList(list []*types.OrderProjection) []Order {
	out := make([]Order, 0, len(list))
	for _, projection := range list {
		out = append(out, FromProjection(projection))
	}
	return out
}

func fromDomain(order *domain.Order) Order {
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       money(item.Price),
			Subtotal:    money(item.Subtotal()),
		})
	}
	return Order{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalAmount:     money(order.TotalAmount),
		ShippingAddress: order.ShippingAddress,
		Items:           items,
	}
}

// money renders amounts as JSON numbers with two decimals, without float rounding.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
