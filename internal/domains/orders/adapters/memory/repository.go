package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

type storedOrder struct {
	order     *domain.Order
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*storedOrder
	nextID     int64
	nextItemID int64
	now        func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*storedOrder{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone.ID = r.nextID
	for i := range clone.Items {
		r.nextItemID++
		clone.Items[i].ID = r.nextItemID
	}
	now := r.now().UTC()
	stored := &storedOrder{order: clone, createdAt: now, updatedAt: now}
	r.orders[clone.ID] = stored
	return stored.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.project(), nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*storedOrder, 0)
	for _, stored := range r.orders {
		if stored.order.UserID == userID {
			list = append(list, stored)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].createdAt.Equal(list[j].createdAt) {
			return list[i].createdAt.After(list[j].createdAt)
		}
		return list[i].order.ID > list[j].order.ID
	})
	return projectAll(list), nil
}

func (r *Repository) List(_ context.Context) ([]*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*storedOrder, 0, len(r.orders))
	for _, stored := range r.orders {
		list = append(list, stored)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].order.ID < list[j].order.ID })
	return projectAll(list), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*types.OrderProjection, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored.order.Status = status
	stored.updatedAt = r.now().UTC()
	return stored.project(), nil
}

func (s *storedOrder) project() *types.OrderProjection {
	return types.NewOrderProjection(s.order.Clone(), s.createdAt, s.updatedAt)
}

func projectAll(list []*storedOrder) []*types.OrderProjection {
	out := make([]*types.OrderProjection, 0, len(list))
	for _, stored := range list {
		out = append(out, stored.project())
	}
	return out
}
