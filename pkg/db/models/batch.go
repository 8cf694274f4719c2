package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/types"
)

// Batch is a physical lot of a product received from a supplier.
// RemainingQuantity decreases monotonically except by explicit adjustment.
type Batch struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BatchCode         string              `gorm:"column:batch_code;uniqueIndex;not null"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	SupplierID        uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	Quantity          int                 `gorm:"column:quantity;not null"`
	RemainingQuantity int                 `gorm:"column:remaining_quantity;not null"`
	UnitCost          int64               `gorm:"column:unit_cost;not null"`
	MfgDate           time.Time           `gorm:"column:mfg_date;not null"`
	ExpiryDate        time.Time           `gorm:"column:expiry_date;not null;index"`
	Status            enums.BatchStatus   `gorm:"column:status;not null;default:'pending'"`
	Location          *string             `gorm:"column:location"`
	QualityCheck      *types.QualityCheck `gorm:"column:quality_check;type:jsonb;serializer:json"`
	ApprovedBy        *uuid.UUID          `gorm:"column:approved_by;type:uuid"`
	ApprovedAt        *time.Time          `gorm:"column:approved_at"`
	CreatedBy         uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
