package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
)

// Repository is the persistence surface for user accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindByIdentifier matches the value against username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
