package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;not null;index:idx_orders_user_created"`
	Status          string          `gorm:"column:status;type:varchar(20);not null"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_user_created"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;type:varchar(255)"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order row and all item rows in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := toItemRecords(order.Items)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = record.ID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toProjection(items), nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	projections, err := r.withItems(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return projections[0], nil
}

// ListByUser returns the orders of one user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

// UpdateStatus rewrites only the status column and the update timestamp.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) withItems(ctx context.Context, records []orderRecord) ([]*types.OrderProjection, error) {
	out := make([]*types.OrderProjection, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ANY(?)", pq.Array(ids)).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]orderItemRecord, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for _, rec := range records {
		out = append(out, rec.toProjection(byOrder[rec.ID]))
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
	}
}

func toItemRecords(items []domain.OrderItem) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return records
}

func (r orderRecord) toProjection(items []orderItemRecord) *types.OrderProjection {
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Status:          domain.Status(r.Status),
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		Items:           make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return types.NewOrderProjection(order, r.CreatedAt, r.UpdatedAt)
}
