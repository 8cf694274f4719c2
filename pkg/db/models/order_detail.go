package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderDetail is one immutable order line; never mutated after creation.
type OrderDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Subtotal returns the line value at the captured unit price.
func (d OrderDetail) Subtotal() int64 {
	return int64(d.Quantity) * d.UnitPrice
}
