package catalog

import (
	"context"
	"errors"
	"net/http"

	productclient "github.com/Apurer/shop-order-service/internal/clients/http/product"
	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// Lookup implements the catalog port over the product service REST API.
type Lookup struct {
	client *productclient.Client
}

// NewLookup wires a product HTTP client into the catalog port.
func NewLookup(client *productclient.Client) *Lookup {
	return &Lookup{client: client}
}

// Product maps a missing product (404, or the 400 the product service uses for
// unknown ids) to ports.ErrProductNotFound.
func (l *Lookup) Product(ctx context.Context, productID int64) (ports.Product, error) {
	if l == nil || l.client == nil {
		return ports.Product{}, errors.New("catalog lookup not configured")
	}
	product, err := l.client.GetProduct(ctx, productID)
	if err != nil {
		if rest.IsStatus(err, http.StatusNotFound, http.StatusBadRequest) {
			return ports.Product{}, ports.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	return ports.Product{ID: product.ID, Name: product.Name, Price: product.Price}, nil
}

var _ ports.CatalogLookup = (*Lookup)(nil)
