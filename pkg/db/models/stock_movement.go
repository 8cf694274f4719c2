package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// StockMovement is one append-only ledger entry describing an inventory
// delta. Quantity is signed by type; TotalValue is |qty|*unitCost, derived at
// write time. Reference is a tagged {model, id} pair rather than a dynamic
// collection lookup.
type StockMovement struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Type           enums.MovementType    `gorm:"column:type;not null"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	BatchID        *uuid.UUID            `gorm:"column:batch_id;type:uuid;index"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	UnitCost       int64                 `gorm:"column:unit_cost;not null"`
	TotalValue     decimal.Decimal       `gorm:"column:total_value;type:numeric(16,2);not null"`
	Reason         string                `gorm:"column:reason;not null"`
	ReferenceModel *enums.ReferenceModel `gorm:"column:reference_model"`
	ReferenceID    *uuid.UUID            `gorm:"column:reference_id;type:uuid"`
	Location       *string               `gorm:"column:location"`
	PerformedBy    uuid.UUID             `gorm:"column:performed_by;type:uuid;not null"`
	ApprovedBy     *uuid.UUID            `gorm:"column:approved_by;type:uuid"`
	Status         enums.MovementStatus  `gorm:"column:status;not null;default:'completed'"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// Movement reasons used by the stock engine.
const (
	MovementReasonPurchase       = "purchase"
	MovementReasonSale           = "sale"
	MovementReasonDisposal       = "disposal"
	MovementReasonOrderCancelled = "order_cancelled"
	MovementReasonOrderReverted  = "order_reverted"
)

// NewTotalValue derives the absolute ledger value for a movement row.
func NewTotalValue(quantity int, unitCost int64) decimal.Decimal {
	qty := quantity
	if qty < 0 {
		qty = -qty
	}
	return decimal.NewFromInt(int64(qty)).Mul(decimal.NewFromInt(unitCost))
}
