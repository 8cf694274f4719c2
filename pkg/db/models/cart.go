package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-customer mutable basket. TotalAmount is recomputed from
// current items on every mutation; the cart never reserves inventory.
type Cart struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID  `gorm:"column:customer_id;type:uuid;uniqueIndex;not null"`
	TotalAmount int64      `gorm:"column:total_amount;not null;default:0"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
