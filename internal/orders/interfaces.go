package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

// Repository is the persistence surface for orders and their details.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindForUpdate loads the bare order row under a row lock so concurrent
	// status transitions serialize on it. Details are loaded separately.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListDetails(ctx context.Context, orderID uuid.UUID) ([]models.OrderDetail, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListContainingProducts(ctx context.Context, productIDs []uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPaymentStatus(ctx context.Context) (map[string]int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
}
