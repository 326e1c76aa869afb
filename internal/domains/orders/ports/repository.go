package ports

import (
	"context"
	"errors"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists order aggregates together with their items.
type Repository interface {
	// Create stores a new order and its items atomically and assigns identifiers.
	Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*types.OrderProjection, error)
	// ListByUser returns the orders of one user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*types.OrderProjection, error)
	List(ctx context.Context) ([]*types.OrderProjection, error)
	// UpdateStatus rewrites the status in place and returns the stored result.
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*types.OrderProjection, error)
}
