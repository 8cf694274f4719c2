package batches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a batches repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, batch *models.Batch) (*models.Batch, error) {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Batch{})
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rows []models.Batch
	err := query.
		Order("expiry_date ASC").
		Offset(pagination.Offset(normalized)).
		Limit(normalized.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindAllocatable locks the sellable rows in consumption order so concurrent
// deductions serialize per product. sqlite has no FOR UPDATE; its single
// writer gives the same guarantee in tests.
func (r *repository) FindAllocatable(ctx context.Context, productID uuid.UUID, now time.Time) ([]models.Batch, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ? AND remaining_quantity > 0 AND expiry_date > ?",
			productID, enums.BatchStatusActive, now).
		Order("expiry_date ASC")
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Batch
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, params pagination.Params, filters MovementFilters) ([]models.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.BatchID != nil {
		query = query.Where("batch_id = ?", *filters.BatchID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rows []models.StockMovement
	err := query.
		Order("created_at DESC").
		Offset(pagination.Offset(normalized)).
		Limit(normalized.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ExpireActiveBatches(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("status = ? AND expiry_date < ?", enums.BatchStatusActive, now).
		Update("status", enums.BatchStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *repository) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("stock_quantity < ?", threshold).
		Order("stock_quantity ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ExpiringSoon(ctx context.Context, now time.Time, days int) ([]models.Batch, error) {
	horizon := now.AddDate(0, 0, days)
	var rows []models.Batch
	err := r.db.WithContext(ctx).
		Where("status = ? AND remaining_quantity > 0 AND expiry_date > ? AND expiry_date <= ?",
			enums.BatchStatusActive, now, horizon).
		Order("expiry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ExpiredWithStock(ctx context.Context, now time.Time) ([]models.Batch, error) {
	var rows []models.Batch
	err := r.db.WithContext(ctx).
		Where("status IN ? AND remaining_quantity > 0 AND expiry_date < ?",
			[]enums.BatchStatus{enums.BatchStatusActive, enums.BatchStatusExpired}, now).
		Order("expiry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
