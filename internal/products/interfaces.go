package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

// Repository is the persistence surface for catalog products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Product, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock applies a signed delta with a floor-at-zero guard. It
	// returns gorm.ErrRecordNotFound when the guard rejects the change.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	ListCreatedBy(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
}
