// Package errors renders failures as RFC 7807 Problem Details.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the body of every error response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference naming the kind of failure; it survives status folding.
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	// Instance defaults to the request path.
	Instance string `json:"instance,omitempty"`
	// Extensions carries machine-readable fields such as the failing product id.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Problem types as URI references.
const (
	TypeValidation      = "/problems/validation-error"
	TypeBadRequest      = "/problems/bad-request"
	TypeNotFound        = "/problems/not-found"
	TypeForbidden       = "/problems/forbidden"
	TypeOutOfStock      = "/problems/out-of-stock"
	TypeInvalidState    = "/problems/invalid-order-state"
	TypeProductNotFound = "/problems/product-not-found"
	TypeBadGateway      = "/problems/bad-gateway"
	TypeInternal        = "/problems/internal-error"
)

var (
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	ErrNotFound   = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}
	ErrForbidden  = ProblemDetail{Type: TypeForbidden, Title: "Forbidden", Status: http.StatusForbidden}
	// ErrOutOfStock is raised while placing an order, before anything is reserved.
	ErrOutOfStock = ProblemDetail{Type: TypeOutOfStock, Title: "Out Of Stock", Status: http.StatusConflict}
	// ErrInvalidState rejects operations that need the order in another status.
	ErrInvalidState    = ProblemDetail{Type: TypeInvalidState, Title: "Invalid Order State", Status: http.StatusConflict}
	ErrProductNotFound = ProblemDetail{Type: TypeProductNotFound, Title: "Product Not Found", Status: http.StatusUnprocessableEntity}
	// ErrBadGateway reports a failed call to the inventory, product or notification service.
	ErrBadGateway = ProblemDetail{Type: TypeBadGateway, Title: "Bad Gateway", Status: http.StatusBadGateway}
	ErrInternal   = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewOutOfStockProblem names the product that failed the stock check and what was available.
func NewOutOfStockProblem(productID int64, available int, detail string) ProblemDetail {
	return ErrOutOfStock.
		WithDetail(detail).
		WithExtension("productId", productID).
		WithExtension("available", available)
}
