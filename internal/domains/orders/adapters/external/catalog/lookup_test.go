package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	productclient "github.com/Apurer/shop-order-service/internal/clients/http/product"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

func TestLookup_MapsMissingProducts(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"Product not found"}`))
		}))

		client, err := productclient.NewProductClient(server.URL, server.Client())
		require.NoError(t, err)

		_, err = NewLookup(client).Product(context.Background(), 7)
		require.ErrorIs(t, err, ports.ErrProductNotFound)
		server.Close()
	}
}

func TestLookup_ReturnsNameAndPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":100,"name":"MacBook Pro","price":1999.99}`))
	}))
	defer server.Close()

	client, err := productclient.NewProductClient(server.URL, server.Client())
	require.NoError(t, err)

	product, err := NewLookup(client).Product(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, "MacBook Pro", product.Name)
	require.Equal(t, "1999.99", product.Price.String())
}
