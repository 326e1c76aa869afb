package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
)

// StockResponse is the inventory service answer to a stock check.
type StockResponse struct {
	ProductID         int64 `json:"productId"`
	InStock           bool  `json:"inStock"`
	AvailableQuantity int   `json:"availableQuantity"`
}

// StockRequest is the body of the reserve, confirm and release calls.
type StockRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Client talks to the inventory service REST API.
type Client struct {
	api *rest.Client
}

// NewInventoryClient instantiates the inventory client. A nil httpClient gets a traced default.
func NewInventoryClient(baseURL string, httpClient *http.Client) (*Client, error) {
	api, err := rest.New("inventory service", baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// CheckStock calls GET /api/inventory/check/{productId}?quantity=N.
func (c *Client) CheckStock(ctx context.Context, productID int64, quantity int) (StockResponse, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return StockResponse{}, err
	}
	queryFrag, err := runtime.StyleParamWithLocation("form", true, "quantity", runtime.ParamLocationQuery, quantity)
	if err != nil {
		return StockResponse{}, err
	}
	query, err := url.ParseQuery(queryFrag)
	if err != nil {
		return StockResponse{}, err
	}
	var out StockResponse
	if err := c.api.Do(ctx, http.MethodGet, "/api/inventory/check/"+pathParam, query, nil, &out); err != nil {
		return StockResponse{}, err
	}
	return out, nil
}

// Reserve calls POST /api/inventory/reserve.
func (c *Client) Reserve(ctx context.Context, req StockRequest) error {
	return c.post(ctx, "reserve", req)
}

// Confirm calls POST /api/inventory/confirm.
func (c *Client) Confirm(ctx context.Context, req StockRequest) error {
	return c.post(ctx, "confirm", req)
}

// Release calls POST /api/inventory/release.
func (c *Client) Release(ctx context.Context, req StockRequest) error {
	return c.post(ctx, "release", req)
}

func (c *Client) post(ctx context.Context, action string, req StockRequest) error {
	if err := c.api.Do(ctx, http.MethodPost, "/api/inventory/"+action, nil, req, nil); err != nil {
		return fmt.Errorf("%s stock: %w", action, err)
	}
	return nil
}
