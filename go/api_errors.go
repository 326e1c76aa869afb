package orderserver

import (
	"errors"
	"net/url"

	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	orderapp "github.com/Apurer/shop-order-service/internal/domains/orders/application"
	orderports "github.com/Apurer/shop-order-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/shop-order-service/internal/shared/errors"
)

// Problem types specific to the order endpoints.
const (
	TypeOutOfStock      = apierrors.TypeOutOfStock
	TypeProductNotFound = apierrors.TypeProductNotFound
	TypeInvalidState    = apierrors.TypeInvalidState
)

// NewOrderResponder builds the problem responder used by the order handlers.
func NewOrderResponder(mode apierrors.StatusMode) *apierrors.Responder {
	return apierrors.NewChainedResponder("", mode, orderProblem, collaboratorProblem)
}

// orderProblem maps the order workflow error taxonomy to problem details.
func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	var stockErr *orderapp.OutOfStockError
	switch {
	case errors.As(err, &stockErr):
		return apierrors.NewOutOfStockProblem(stockErr.ProductID, stockErr.Available, stockErr.Error()), true
	case errors.Is(err, orderapp.ErrOutOfStock):
		return apierrors.ErrOutOfStock.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found"), true
	case errors.Is(err, orderapp.ErrNotAuthorized):
		return apierrors.ErrForbidden.WithDetail("Not authorized to cancel this order"), true
	case errors.Is(err, orderapp.ErrInvalidState):
		return apierrors.ErrInvalidState.WithDetail("Only pending orders can be cancelled"), true
	case errors.Is(err, orderports.ErrProductNotFound):
		return apierrors.ErrProductNotFound.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// collaboratorProblem reports failures of the inventory, product or notification services.
func collaboratorProblem(err error) (apierrors.ProblemDetail, bool) {
	var statusErr *rest.StatusError
	var urlErr *url.Error
	if errors.As(err, &statusErr) || errors.As(err, &urlErr) {
		return apierrors.ErrBadGateway.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
