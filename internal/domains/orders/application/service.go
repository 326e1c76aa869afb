package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// Service runs the order workflow: it prices and reserves stock for new orders
// and applies the status state machine. It keeps no state between calls.
type Service struct {
	repo     ports.Repository
	ledger   ports.InventoryLedger
	catalog  ports.CatalogLookup
	notifier ports.NotificationDispatcher
}

// NewService wires the workflow with its store and collaborators. A nil
// notifier discards notifications.
func NewService(repo ports.Repository, ledger ports.InventoryLedger, catalog ports.CatalogLookup, notifier ports.NotificationDispatcher) *Service {
	if notifier == nil {
		notifier = discardDispatcher{}
	}
	return &Service{repo: repo, ledger: ledger, catalog: catalog, notifier: notifier}
}

// CreateOrder checks stock and prices every line before reserving anything,
// then reserves, persists a PENDING order and announces it.
//
// A reserve failure part way through leaves earlier reservations in place.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, mapError(err)
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, req := range input.Items {
		level, err := s.ledger.Check(ctx, req.ProductID, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("check stock for product %d: %w", req.ProductID, err)
		}
		if !level.InStock {
			return nil, &OutOfStockError{ProductID: req.ProductID, Available: level.AvailableQuantity}
		}
		product, err := s.catalog.Product(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product %d: %w", req.ProductID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID:   req.ProductID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			Price:       product.Price,
		})
	}

	order, err := domain.NewOrder(input.UserID, input.ShippingAddress, items)
	if err != nil {
		return nil, mapError(err)
	}

	for _, item := range order.Items {
		if err := s.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("reserve stock for product %d: %w", item.ProductID, err)
		}
	}

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.notifier.Dispatch(ctx, domain.OrderCreatedNotification(saved.Entity))
	return saved, nil
}

// GetOrderByID loads a single order.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*types.OrderProjection, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetOrdersByUserID lists the orders of one user, newest first.
func (s *Service) GetOrdersByUserID(ctx context.Context, userID int64) ([]*types.OrderProjection, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetAllOrders lists every order.
func (s *Service) GetAllOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// UpdateOrderStatus applies the state machine: confirming or cancelling a
// PENDING order first confirms or releases the stock of every item. Any other
// transition is written without ledger calls.
func (s *Service) UpdateOrderStatus(ctx context.Context, input types.UpdateOrderStatusInput) (*types.OrderProjection, error) {
	if !input.Status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	current, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	change, err := domain.PlanStatusChange(current.Entity, input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.applyStockEffects(ctx, change.Effects); err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdateStatus(ctx, input.OrderID, change.To)
	if err != nil {
		return nil, mapError(err)
	}
	s.notifier.Dispatch(ctx, domain.OrderStatusChangedNotification(saved.Entity))
	return saved, nil
}

// CancelOrder cancels a PENDING order owned by the requesting user.
func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderProjection, error) {
	current, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	if !current.Entity.IsOwnedBy(input.UserID) {
		return nil, ErrNotAuthorized
	}
	if current.Entity.Status != domain.StatusPending {
		return nil, ErrInvalidState
	}
	return s.UpdateOrderStatus(ctx, types.UpdateOrderStatusInput{OrderID: input.OrderID, Status: domain.StatusCancelled})
}

func (s *Service) applyStockEffects(ctx context.Context, effects []domain.StockEffect) error {
	for _, effect := range effects {
		var err error
		switch effect.Action {
		case domain.StockConfirm:
			err = s.ledger.Confirm(ctx, effect.ProductID, effect.Quantity)
		case domain.StockRelease:
			err = s.ledger.Release(ctx, effect.ProductID, effect.Quantity)
		default:
			err = fmt.Errorf("unknown stock action %q", effect.Action)
		}
		if err != nil {
			return fmt.Errorf("%s stock for product %d: %w", effect.Action, effect.ProductID, err)
		}
	}
	return nil
}

func validateCreateInput(input types.CreateOrderInput) error {
	if input.UserID <= 0 {
		return domain.ErrInvalidUserID
	}
	if len(input.Items) == 0 {
		return domain.ErrNoItems
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return domain.ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return domain.ErrEmptyShippingAddress
	}
	return nil
}

type discardDispatcher struct{}

func (discardDispatcher) Dispatch(context.Context, domain.Notification) {}

var _ ports.Service = (*Service)(nil)
