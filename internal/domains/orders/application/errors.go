package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrOutOfStock signals the ledger reported insufficient available quantity.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrNotAuthorized signals a user acting on an order they do not own.
	ErrNotAuthorized = errors.New("not authorized to cancel this order")
	// ErrInvalidState signals an operation that requires a PENDING order.
	ErrInvalidState = errors.New("only pending orders can be cancelled")
)

// OutOfStockError reports which product failed the stock check and how much was available.
type OutOfStockError struct {
	ProductID int64
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("Product %d is out of stock. Available: %d", e.ProductID, e.Available)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrEmptyShippingAddress) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
