package batches

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// CreateInput captures a batch intake from a supplier.
type CreateInput struct {
	BatchCode  string
	ProductID  uuid.UUID
	SupplierID uuid.UUID
	Quantity   int
	UnitCost   int64
	MfgDate    time.Time
	ExpiryDate time.Time
	Location   *string
}

// ApproveInput records the quality gate result for a pending batch.
type ApproveInput struct {
	BatchID uuid.UUID
	ActorID uuid.UUID
	Passed  bool
	Notes   string
}

// DisposeInput removes stock from a batch for destruction.
type DisposeInput struct {
	BatchID  uuid.UUID
	ActorID  uuid.UUID
	Quantity int
	Reason   string
}

// Filters narrows batch listings.
type Filters struct {
	ProductID  *uuid.UUID
	SupplierID *uuid.UUID
	Status     *enums.BatchStatus
}

// MovementFilters narrows stock ledger listings.
type MovementFilters struct {
	ProductID *uuid.UUID
	BatchID   *uuid.UUID
	Type      *enums.MovementType
}

// Line is one product demand inside an order being deducted or restored.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockReport aggregates the three attention lists for staff dashboards.
type StockReport struct {
	LowStock     []models.Product `json:"lowStock"`
	ExpiringSoon []models.Batch   `json:"expiringSoon"`
	Expired      []models.Batch   `json:"expired"`
}
