package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
)

// ErrProductNotFound indicates the catalog has no product with the requested id.
var ErrProductNotFound = errors.New("product not found")

// StockLevel is the ledger's answer to a stock check.
type StockLevel struct {
	InStock           bool
	AvailableQuantity int
}

// InventoryLedger is the outbound port to the inventory service.
type InventoryLedger interface {
	// Check reports availability; unknown products are not in stock with zero available.
	Check(ctx context.Context, productID int64, quantity int) (StockLevel, error)
	// Reserve holds quantity against available stock.
	Reserve(ctx context.Context, productID int64, quantity int) error
	// Confirm consumes a reservation, decrementing on-hand and reserved quantity.
	Confirm(ctx context.Context, productID int64, quantity int) error
	// Release returns reserved quantity to availability, floored at zero by the ledger.
	Release(ctx context.Context, productID int64, quantity int) error
}

// Product is the catalog snapshot used to price an order line.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// CatalogLookup resolves product identifiers to name and price.
type CatalogLookup interface {
	Product(ctx context.Context, productID int64) (Product, error)
}

// NotificationSender delivers a notification synchronously.
type NotificationSender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// NotificationDispatcher hands a notification off for delivery without waiting
// for, or reporting, the outcome.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification domain.Notification)
}
