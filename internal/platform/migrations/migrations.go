package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the orders schema. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&orderRecord{}, &orderItemRecord{}); err != nil {
		return err
	}
	return db.Exec(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_order_items_order') THEN
		ALTER TABLE order_items
			ADD CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
	END IF;
END $$`).Error
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;not null;index:idx_orders_user_created"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;index"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_user_created"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Item schema mirrors the orders Postgres adapter; rows are owned by an order.
type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;type:varchar(255)"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }
