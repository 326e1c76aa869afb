package inventory

import (
	"context"
	"errors"
	"net/http"

	inventoryclient "github.com/Apurer/shop-order-service/internal/clients/http/inventory"
	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// Ledger implements the inventory port over the inventory service REST API.
type Ledger struct {
	client *inventoryclient.Client
}

// NewLedger wires an inventory HTTP client into the ledger port.
func NewLedger(client *inventoryclient.Client) *Ledger {
	return &Ledger{client: client}
}

// Check treats an unknown product as not in stock with nothing available.
func (l *Ledger) Check(ctx context.Context, productID int64, quantity int) (ports.StockLevel, error) {
	if err := l.ensureClient(); err != nil {
		return ports.StockLevel{}, err
	}
	resp, err := l.client.CheckStock(ctx, productID, quantity)
	if err != nil {
		if rest.IsStatus(err, http.StatusNotFound) {
			return ports.StockLevel{}, nil
		}
		return ports.StockLevel{}, err
	}
	return ports.StockLevel{InStock: resp.InStock, AvailableQuantity: resp.AvailableQuantity}, nil
}

func (l *Ledger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if err := l.ensureClient(); err != nil {
		return err
	}
	return l.client.Reserve(ctx, inventoryclient.StockRequest{ProductID: productID, Quantity: quantity})
}

func (l *Ledger) Confirm(ctx context.Context, productID int64, quantity int) error {
	if err := l.ensureClient(); err != nil {
		return err
	}
	return l.client.Confirm(ctx, inventoryclient.StockRequest{ProductID: productID, Quantity: quantity})
}

func (l *Ledger) Release(ctx context.Context, productID int64, quantity int) error {
	if err := l.ensureClient(); err != nil {
		return err
	}
	return l.client.Release(ctx, inventoryclient.StockRequest{ProductID: productID, Quantity: quantity})
}

func (l *Ledger) ensureClient() error {
	if l == nil || l.client == nil {
		return errors.New("inventory ledger not configured")
	}
	return nil
}

var _ ports.InventoryLedger = (*Ledger)(nil)
