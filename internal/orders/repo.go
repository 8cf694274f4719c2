package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	// sqlite has a single writer, so the explicit row lock only matters on
	// postgres where concurrent transitions would otherwise interleave.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListDetails(ctx context.Context, orderID uuid.UUID) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Details").
		Order("created_at DESC").
		Offset(pagination.Offset(params)).
		Limit(params.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *repository) ListContainingProducts(ctx context.Context, productIDs []uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	if len(productIDs) == 0 {
		return nil, 0, nil
	}

	sub := r.db.Model(&models.OrderDetail{}).
		Select("DISTINCT order_id").
		Where("product_id IN ?", productIDs)
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Details").
		Order("created_at DESC").
		Offset(pagination.Offset(params)).
		Limit(params.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Details").
		Order("created_at DESC").
		Offset(pagination.Offset(params)).
		Limit(params.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("payment_status AS status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ?", enums.OrderPaymentStatusSuccess).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(sum), nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
