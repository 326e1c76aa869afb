//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/shop-order-service/test/pact"

	inventoryclient "github.com/Apurer/shop-order-service/internal/clients/http/inventory"
	productclient "github.com/Apurer/shop-order-service/internal/clients/http/product"
	"github.com/Apurer/shop-order-service/internal/clients/http/rest"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

func mockBaseURL(config pactconsumer.MockServerConfig) string {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, config.Port)
}

func TestInventoryServiceContract(t *testing.T) {
	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.InventoryProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	stockBody := matchers.Map{
		"productId": matchers.Like(pacttest.StockedProductID),
		"quantity":  matchers.Like(2),
	}

	pact.AddInteraction().
		Given(pacttest.StateProductStocked).
		UponReceiving("a stock check for two units").
		WithRequest("GET", fmt.Sprintf("/api/inventory/check/%d", pacttest.StockedProductID), func(b *pactconsumer.V2RequestBuilder) {
			b.Query("quantity", matchers.S("2"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.JSONBody(matchers.Map{
				"productId":         matchers.Like(pacttest.StockedProductID),
				"inStock":           matchers.Like(true),
				"availableQuantity": matchers.Like(pacttest.AvailableUnits),
			})
		})

	for _, action := range []string{"reserve", "confirm", "release"} {
		pact.AddInteraction().
			Given(pacttest.StateProductStocked).
			UponReceiving(fmt.Sprintf("a request to %s two units", action)).
			WithRequest("POST", "/api/inventory/"+action, func(b *pactconsumer.V2RequestBuilder) {
				b.Header("Content-Type", matchers.S("application/json"))
				b.JSONBody(stockBody)
			}).
			WillRespondWith(http.StatusOK)
	}

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := inventoryclient.NewInventoryClient(mockBaseURL(config), rest.NewHTTPClient(5*time.Second))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stock, err := client.CheckStock(ctx, pacttest.StockedProductID, 2)
		if err != nil {
			return fmt.Errorf("check stock: %w", err)
		}
		if !stock.InStock {
			return fmt.Errorf("expected product %d in stock", pacttest.StockedProductID)
		}
		req := inventoryclient.StockRequest{ProductID: pacttest.StockedProductID, Quantity: 2}
		if err := client.Reserve(ctx, req); err != nil {
			return err
		}
		if err := client.Confirm(ctx, req); err != nil {
			return err
		}
		return client.Release(ctx, req)
	})
	require.NoError(t, err)
}

func TestProductServiceContract(t *testing.T) {
	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.ProductProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request for an existing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.StockedProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.JSONBody(matchers.Map{
				"id":    matchers.Like(pacttest.StockedProductID),
				"name":  matchers.Like(pacttest.ProductName),
				"price": matchers.Like(1999.99),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound)

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := productclient.NewProductClient(mockBaseURL(config), rest.NewHTTPClient(5*time.Second))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		product, err := client.GetProduct(ctx, pacttest.StockedProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.Price.String() != pacttest.ProductPrice {
			return fmt.Errorf("expected price %s, got %s", pacttest.ProductPrice, product.Price)
		}

		_, err = client.GetProduct(ctx, pacttest.MissingProductID)
		var statusErr *rest.StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			return fmt.Errorf("expected 404 status error, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}
