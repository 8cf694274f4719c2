package batches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

// Repository is the persistence surface for batches and the stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, batch *models.Batch) (*models.Batch, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Batch, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// FindAllocatable returns the sellable batches for a product in FIFO
	// (soonest expiry first) order, row-locked for the current transaction.
	FindAllocatable(ctx context.Context, productID uuid.UUID, now time.Time) ([]models.Batch, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, params pagination.Params, filters MovementFilters) ([]models.StockMovement, int64, error)
	ExpireActiveBatches(ctx context.Context, now time.Time) (int64, error)
	LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
	ExpiringSoon(ctx context.Context, now time.Time, days int) ([]models.Batch, error)
	ExpiredWithStock(ctx context.Context, now time.Time) ([]models.Batch, error)
}
