//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-service"
	ConsumerName = "shop-portal"

	InventoryProviderName = "inventory-service"
	ProductProviderName   = "product-service"

	StateOrdersBaseline = "orders baseline with product 100 in stock"
	StateOrderExists    = "pending order 1 exists for user 7"
	StateOrderMissing   = "no order with id 999"
	StateProductStocked = "product 100 has 10 units available"
	StateProductExists  = "product 100 exists"
	StateProductMissing = "no product with id 404"
)

const (
	ExistingOrderID int64 = 1
	MissingOrderID  int64 = 999
	OrderOwnerID    int64 = 7

	StockedProductID int64 = 100
	MissingProductID int64 = 404
	AvailableUnits         = 10

	ProductName     = "MacBook Pro"
	ProductPrice    = "1999.99"
	ShippingAddress = "Test Address"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the shop portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreateOrderPayload is the body the portal posts to place an order.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"items":           []map[string]any{{"productId": StockedProductID, "quantity": 2}},
		"shippingAddress": ShippingAddress,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
