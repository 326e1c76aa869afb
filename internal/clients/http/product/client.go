package product

import (
	"context"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
)

// Product is the product service representation.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
}

// Client talks to the product service REST API.
type Client struct {
	api *rest.Client
}

// NewProductClient instantiates the product client. A nil httpClient gets a traced default.
func NewProductClient(baseURL string, httpClient *http.Client) (*Client, error) {
	api, err := rest.New("product service", baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// GetProduct calls GET /api/products/{id}.
func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return Product{}, err
	}
	var out Product
	if err := c.api.Do(ctx, http.MethodGet, "/api/products/"+pathParam, nil, nil, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}
