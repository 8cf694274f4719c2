package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a suppliers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rows []models.Supplier
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

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// RecordBatch bumps the received-batch counters in one atomic statement so
// concurrent intakes never lose an increment.
func (r *repository) RecordBatch(ctx context.Context, id uuid.UUID, value int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders": gorm.Expr("total_orders + 1"),
			"total_value":  gorm.Expr("total_value + ?", value),
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Supplier{}).Error
}

func (r *repository) CountBatches(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}
