package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
)

// Repository is the persistence surface for provider payment records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	// FindPendingByOrder returns the newest pending payment for the order.
	FindPendingByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	FindByProviderOrderCode(ctx context.Context, code int64) (*models.Payment, error)
	// CodeInUse reports whether a non-terminal payment already claims the code.
	CodeInUse(ctx context.Context, code int64) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// FailPendingByOrder marks every pending payment of the order failed.
	FailPendingByOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (int64, error)
	// ExpireStale fails gateway payments whose timeout has passed.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
}
