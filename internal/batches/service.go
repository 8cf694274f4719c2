package batches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/suppliers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/types"
)

// Service defines batch lifecycle and stock reporting operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Batch, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Batch, pagination.Meta, error)
	Approve(ctx context.Context, input ApproveInput) (*models.Batch, error)
	Dispose(ctx context.Context, input DisposeInput) (*models.Batch, error)
	ListMovements(ctx context.Context, params pagination.Params, filters MovementFilters) ([]models.StockMovement, pagination.Meta, error)
	Report(ctx context.Context) (*StockReport, error)
	ExpiringSoon(ctx context.Context, days int) ([]models.Batch, error)
	ExpireBatches(ctx context.Context) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	products  products.Repository
	suppliers suppliers.Repository
	tx        txRunner
	cfg       config.StockConfig
	now       func() time.Time
}

// NewService builds a batch service with the required dependencies.
func NewService(repo Repository, productRepo products.Repository, supplierRepo suppliers.Repository, tx txRunner, cfg config.StockConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("batches repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if supplierRepo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		products:  productRepo,
		suppliers: supplierRepo,
		tx:        tx,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Batch, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitCost < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}
	now := s.now()
	if input.MfgDate.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manufacture date cannot be in the future")
	}
	if !input.ExpiryDate.After(input.MfgDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry date must be after manufacture date")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	supplier, err := s.suppliers.FindByID(ctx, input.SupplierID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if supplier.Status != enums.SupplierStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "supplier is not active")
	}

	code := strings.TrimSpace(input.BatchCode)
	if code == "" {
		code = generateBatchCode(now)
	}

	batch := &models.Batch{
		ID:                uuid.New(),
		BatchCode:         code,
		ProductID:         input.ProductID,
		SupplierID:        input.SupplierID,
		Quantity:          input.Quantity,
		RemainingQuantity: input.Quantity,
		UnitCost:          input.UnitCost,
		MfgDate:           input.MfgDate,
		ExpiryDate:        input.ExpiryDate,
		Status:            enums.BatchStatusPending,
		Location:          input.Location,
		CreatedBy:         actorID,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, batch); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "batch code already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch")
		}
		value := int64(input.Quantity) * input.UnitCost
		if err := s.suppliers.WithTx(tx).RecordBatch(ctx, input.SupplierID, value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record supplier batch")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch")
	}
	return batch, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Batch, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batches")
	}
	return rows, pagination.NewMeta(params, total), nil
}

// Approve runs the quality gate. A passing check activates the batch and
// puts its units on hand; a failing check leaves the batch pending with the
// recorded result.
func (s *service) Approve(ctx context.Context, input ApproveInput) (*models.Batch, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	// A failed check is recorded on the batch but never activates it.
	if !input.Passed {
		batch, err := s.Get(ctx, input.BatchID)
		if err != nil {
			return nil, err
		}
		if batch.Status != enums.BatchStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "batch is not pending approval")
		}
		now := s.now()
		actor := input.ActorID
		notes := input.Notes
		check := &types.QualityCheck{Passed: false, CheckedBy: &actor, CheckedAt: &now, Notes: &notes}
		if err := s.repo.Update(ctx, batch.ID, map[string]any{"quality_check": check}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record quality check")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quality check must pass before activation")
	}

	var approved *models.Batch
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		batch, err := repo.FindByID(ctx, input.BatchID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch")
		}
		if batch.Status != enums.BatchStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "batch is not pending approval")
		}

		now := s.now()
		actor := input.ActorID
		notes := input.Notes
		check := &types.QualityCheck{
			Passed:    input.Passed,
			CheckedBy: &actor,
			CheckedAt: &now,
			Notes:     &notes,
		}

		if err := repo.Update(ctx, batch.ID, map[string]any{
			"status":        enums.BatchStatusActive,
			"quality_check": check,
			"approved_by":   actor,
			"approved_at":   now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate batch")
		}

		batchID := batch.ID
		refModel := enums.ReferenceModelBatch
		movement := &models.StockMovement{
			ID:             uuid.New(),
			Type:           enums.MovementTypeIn,
			ProductID:      batch.ProductID,
			BatchID:        &batchID,
			Quantity:       batch.Quantity,
			UnitCost:       batch.UnitCost,
			TotalValue:     models.NewTotalValue(batch.Quantity, batch.UnitCost),
			Reason:         models.MovementReasonPurchase,
			ReferenceModel: &refModel,
			ReferenceID:    &batchID,
			PerformedBy:    actor,
			Status:         enums.MovementStatusCompleted,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}

		if err := s.products.WithTx(tx).AdjustStock(ctx, batch.ProductID, batch.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment product stock")
		}

		reloaded, err := repo.FindByID(ctx, batch.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload batch")
		}
		approved = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (s *service) Dispose(ctx context.Context, input DisposeInput) (*models.Batch, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var disposed *models.Batch
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		batch, err := repo.FindByID(ctx, input.BatchID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch")
		}
		switch batch.Status {
		case enums.BatchStatusActive, enums.BatchStatusExpired, enums.BatchStatusRecalled:
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "batch cannot be disposed in current state")
		}
		if input.Quantity > batch.RemainingQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "dispose quantity exceeds remaining stock")
		}

		remaining := batch.RemainingQuantity - input.Quantity
		updates := map[string]any{"remaining_quantity": remaining}
		if remaining == 0 {
			updates["status"] = enums.BatchStatusDisposed
		}
		if err := repo.Update(ctx, batch.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch")
		}

		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			reason = models.MovementReasonDisposal
		}
		batchID := batch.ID
		refModel := enums.ReferenceModelBatch
		movement := &models.StockMovement{
			ID:             uuid.New(),
			Type:           enums.MovementTypeDisposal,
			ProductID:      batch.ProductID,
			BatchID:        &batchID,
			Quantity:       -input.Quantity,
			UnitCost:       batch.UnitCost,
			TotalValue:     models.NewTotalValue(input.Quantity, batch.UnitCost),
			Reason:         reason,
			ReferenceModel: &refModel,
			ReferenceID:    &batchID,
			PerformedBy:    input.ActorID,
			Status:         enums.MovementStatusCompleted,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}

		if err := s.products.WithTx(tx).AdjustStock(ctx, batch.ProductID, -input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement product stock")
		}

		reloaded, err := repo.FindByID(ctx, batch.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload batch")
		}
		disposed = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disposed, nil
}

func (s *service) ListMovements(ctx context.Context, params pagination.Params, filters MovementFilters) ([]models.StockMovement, pagination.Meta, error) {
	rows, total, err := s.repo.ListMovements(ctx, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	return rows, pagination.NewMeta(params, total), nil
}

func (s *service) Report(ctx context.Context) (*StockReport, error) {
	now := s.now()
	low, err := s.repo.LowStockProducts(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock report")
	}
	expiring, err := s.repo.ExpiringSoon(ctx, now, s.cfg.ExpiringSoonDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expiring soon report")
	}
	expired, err := s.repo.ExpiredWithStock(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expired report")
	}
	return &StockReport{LowStock: low, ExpiringSoon: expiring, Expired: expired}, nil
}

// ExpiringSoon lists active batches whose expiry falls within the horizon.
// A non-positive horizon falls back to the configured default.
func (s *service) ExpiringSoon(ctx context.Context, days int) ([]models.Batch, error) {
	if days <= 0 {
		days = s.cfg.ExpiringSoonDays
	}
	rows, err := s.repo.ExpiringSoon(ctx, s.now(), days)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expiring soon report")
	}
	return rows, nil
}

// ExpireBatches flips active batches past their expiry date. Safe to run
// repeatedly; already-expired batches match nothing.
func (s *service) ExpireBatches(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireActiveBatches(ctx, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire batches")
	}
	return count, nil
}

func generateBatchCode(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("BATCH-%s-%s", now.Format("20060102"), suffix)
}
