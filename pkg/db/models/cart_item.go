package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a cart. The (cart_id, product_id) pair is
// unique so a concurrent double add collapses into one row.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Subtotal returns the line value at the captured unit price.
func (c CartItem) Subtotal() int64 {
	return int64(c.Quantity) * c.UnitPrice
}
