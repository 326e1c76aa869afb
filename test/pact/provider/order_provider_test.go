//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/shop-order-service/test/pact"

	orderserver "github.com/Apurer/shop-order-service/go"
	ordersmemory "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/shop-order-service/internal/domains/orders/application"
	ordertypes "github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/shop-order-service/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderServiceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedOrder(t)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the real router over a store that each provider
// state replaces, so seeded orders always start at id 1.
type contractProviderApp struct {
	mu      sync.RWMutex
	service ports.Service
	handler http.Handler
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	service := ordersobs.New(ordersapp.NewService(ordersmemory.NewRepository(), stockedLedger{}, fixedCatalog{}, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router = orderserver.NewRouterWithGinEngine(router, orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(service, apierrors.StatusModeDistinct),
	})

	a.mu.Lock()
	a.service = service
	a.handler = router
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	service := a.service
	a.mu.RUnlock()
	created, err := service.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		UserID:          pacttest.OrderOwnerID,
		ShippingAddress: pacttest.ShippingAddress,
		Items:           []ordertypes.ItemRequest{{ProductID: pacttest.StockedProductID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingOrderID, created.Entity.ID)
}

type stockedLedger struct{}

func (stockedLedger) Check(context.Context, int64, int) (ports.StockLevel, error) {
	return ports.StockLevel{InStock: true, AvailableQuantity: pacttest.AvailableUnits}, nil
}
func (stockedLedger) Reserve(context.Context, int64, int) error { return nil }
func (stockedLedger) Confirm(context.Context, int64, int) error { return nil }
func (stockedLedger) Release(context.Context, int64, int) error { return nil }

type fixedCatalog struct{}

func (fixedCatalog) Product(_ context.Context, id int64) (ports.Product, error) {
	if id != pacttest.StockedProductID {
		return ports.Product{}, ports.ErrProductNotFound
	}
	return ports.Product{ID: id, Name: pacttest.ProductName, Price: decimal.RequireFromString(pacttest.ProductPrice)}, nil
}
