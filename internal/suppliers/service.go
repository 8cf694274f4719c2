package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

const defaultRating = 5.0

// Service defines supplier management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Supplier, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a supplier service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Supplier, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier code required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
	}

	rating := defaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	supplier := &models.Supplier{
		ID:           uuid.New(),
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		Address:      input.Address,
		Status:       enums.SupplierStatusActive,
		Rating:       rating,
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "supplier code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return supplier, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Supplier, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return rows, pagination.NewMeta(params, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Supplier, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name cannot be empty")
		}
		updates["name"] = name
	}
	if input.ContactName != nil {
		updates["contact_name"] = *input.ContactName
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = *input.ContactEmail
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier status")
		}
		updates["status"] = *input.Status
	}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		updates["rating"] = *input.Rating
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a supplier only when no batches reference it.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountBatches(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count supplier batches")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has batches and cannot be deleted")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
		}
		return nil
	})
}
