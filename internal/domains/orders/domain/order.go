package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrInvalidUserID        = errors.New("user id must be greater than zero")
	ErrNoItems              = errors.New("order must have at least one item")
	ErrInvalidProductID     = errors.New("product id must be greater than zero")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrEmptyShippingAddress = errors.New("shipping address is required")
	ErrInvalidStatus        = errors.New("order status is invalid")
)

// MoneyScale is the number of decimal places prices and totals are kept at.
const MoneyScale = 2

// OrderItem is a line of an order. It has no identity outside its Order.
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal is the unit price multiplied by the quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate enforces item invariants.
func (i OrderItem) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// Order models the purchase order aggregate.
type Order struct {
	ID              int64
	UserID          int64
	Status          Status
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Items           []OrderItem
}

// NewOrder builds a PENDING order from price snapshots rounded to MoneyScale.
// The total is computed here once and never recalculated afterwards.
func NewOrder(userID int64, shippingAddress string, items []OrderItem) (*Order, error) {
	snapshot := make([]OrderItem, len(items))
	for i, item := range items {
		item.Price = item.Price.Round(MoneyScale)
		snapshot[i] = item
	}
	order := &Order{
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Items:           snapshot,
		TotalAmount:     SumSubtotals(snapshot),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// SumSubtotals adds up the subtotal of every item.
func SumSubtotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.UserID <= 0 {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(o.ShippingAddress) == "" {
		return ErrEmptyShippingAddress
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsOwnedBy reports whether the order belongs to userID.
func (o *Order) IsOwnedBy(userID int64) bool {
	return o.UserID == userID
}

// Clone returns a deep copy so callers can mutate without aliasing items.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]OrderItem(nil), o.Items...)
	return &clone
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus accepts the upper-case wire representation only.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
