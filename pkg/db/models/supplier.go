package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// Supplier is a vendor that delivers product batches. TotalOrders and
// TotalValue are incremented atomically alongside batch creation and are
// never decremented; batches cannot be deleted while stock remains.
type Supplier struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Code         string               `gorm:"column:code;uniqueIndex;not null"`
	Name         string               `gorm:"column:name;not null"`
	ContactName  *string              `gorm:"column:contact_name"`
	ContactPhone *string              `gorm:"column:contact_phone"`
	ContactEmail *string              `gorm:"column:contact_email"`
	Address      *string              `gorm:"column:address"`
	Status       enums.SupplierStatus `gorm:"column:status;not null;default:'active'"`
	Rating       float64              `gorm:"column:rating;type:numeric(2,1);not null;default:5"`
	TotalOrders  int                  `gorm:"column:total_orders;not null;default:0"`
	TotalValue   int64                `gorm:"column:total_value;not null;default:0"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
