package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

// Repository is the persistence surface for suppliers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByCode(ctx context.Context, code string) (*models.Supplier, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Supplier, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	RecordBatch(ctx context.Context, id uuid.UUID, value int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBatches(ctx context.Context, supplierID uuid.UUID) (int64, error)
}
