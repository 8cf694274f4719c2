package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

// Service defines catalog operations. Reads decorate products with the
// expiry-driven sale policy; writes are staff-only and validated here.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Product, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	cfg  config.StockConfig
	now  func() time.Time
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository, cfg config.StockConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if cfg.AutoSaleDays <= 0 {
		return nil, fmt.Errorf("auto sale window must be positive")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Product, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.SalePrice != nil {
		if err := s.validateManualSale(*input.SalePrice, input.Price, input.ExpiryDate); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		Brand:         input.Brand,
		Category:      input.Category,
		Description:   input.Description,
		Benefits:      pq.StringArray(input.Benefits),
		AIFeatures:    input.AIFeatures,
		Price:         input.Price,
		SalePrice:     input.SalePrice,
		IsOnSale:      input.SalePrice != nil,
		StockQuantity: input.Stock,
		ExpiryDate:    input.ExpiryDate,
		ImageURL:      input.ImageURL,
		CreatedBy:     actorID,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	decorated := DecorateSale(*product, s.now(), s.cfg.AutoSaleDays)
	return &decorated, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Product, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	now := s.now()
	for i := range rows {
		rows[i] = DecorateSale(rows[i], now, s.cfg.AutoSaleDays)
	}
	return rows, pagination.NewMeta(params, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	price := current.Price
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		price = *input.Price
	}
	expiry := current.ExpiryDate
	if input.ExpiryDate != nil {
		expiry = input.ExpiryDate
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Benefits != nil {
		updates["benefits"] = pq.StringArray(input.Benefits)
	}
	if input.AIFeatures != nil {
		updates["ai_features"] = input.AIFeatures
	}
	if input.Price != nil {
		updates["price"] = price
	}
	if input.ExpiryDate != nil {
		updates["expiry_date"] = *input.ExpiryDate
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock_quantity"] = *input.Stock
	}

	switch {
	case input.ClearSale:
		updates["sale_price"] = nil
		updates["is_on_sale"] = false
	case input.SalePrice != nil:
		if err := s.validateManualSale(*input.SalePrice, price, expiry); err != nil {
			return nil, err
		}
		updates["sale_price"] = *input.SalePrice
		updates["is_on_sale"] = true
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// validateManualSale enforces the manual discount rules: only products near
// expiry may carry a manual price, and it must undercut the list price.
func (s *service) validateManualSale(salePrice, price int64, expiry *time.Time) error {
	if salePrice <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive")
	}
	if salePrice >= price {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be below the list price")
	}
	if !withinAutoSaleWindow(expiry, s.now(), s.cfg.AutoSaleDays) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price allowed only for products close to expiry")
	}
	return nil
}
