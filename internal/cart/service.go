package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

// Service defines cart operations. The cart never reserves inventory; stock
// is only validated against the current on-hand count as a courtesy check.
type Service interface {
	GetOrCreate(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	ClearInTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	products products.Repository
	tx       txRunner
	cfg      config.StockConfig
	now      func() time.Time
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, productRepo products.Repository, tx txRunner, cfg config.StockConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: productRepo, tx: tx, cfg: cfg, now: time.Now}, nil
}

func (s *service) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.Create(ctx, &models.Cart{ID: uuid.New(), CustomerID: customerID})
	if err != nil {
		// A concurrent request may have created it; the unique customer
		// index collapses the race into one row.
		if db.IsUniqueViolation(err) {
			return s.repo.FindByCustomer(ctx, customerID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			newQuantity := existing.Quantity + quantity
			if product.StockQuantity < newQuantity {
				return insufficientStock(productID, newQuantity, product.StockQuantity)
			}
			if err := repo.UpdateItem(ctx, existing.ID, map[string]any{
				"quantity":   newQuantity,
				"unit_price": products.EffectivePrice(*product, s.now(), s.cfg.AutoSaleDays),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		case err == gorm.ErrRecordNotFound:
			if product.StockQuantity < quantity {
				return insufficientStock(productID, quantity, product.StockQuantity)
			}
			item := &models.CartItem{
				ID:        uuid.New(),
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: products.EffectivePrice(*product, s.now(), s.cfg.AutoSaleDays),
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		return s.recomputeTotal(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *service) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if quantity == 0 {
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
			}
		} else {
			product, err := s.products.WithTx(tx).FindByID(ctx, productID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if product.StockQuantity < quantity {
				return insufficientStock(productID, quantity, product.StockQuantity)
			}
			if err := repo.UpdateItem(ctx, item.ID, map[string]any{"quantity": quantity}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		}

		return s.recomputeTotal(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error) {
	return s.UpdateItem(ctx, customerID, productID, 0)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.ClearInTx(ctx, tx, customerID)
	})
}

// ClearInTx empties the cart inside a caller transaction; the payment
// webhook uses it so a successful payment clears the cart atomically.
func (s *service) ClearInTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	repo := s.repo.WithTx(tx)
	cart, err := repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := repo.DeleteItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
	}
	if err := repo.UpdateTotal(ctx, cart.ID, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart total")
	}
	return nil
}

func (s *service) recomputeTotal(ctx context.Context, repo Repository, cartID uuid.UUID) error {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	if err := repo.UpdateTotal(ctx, cartID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
	}
	return nil
}

func insufficientStock(productID uuid.UUID, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").
		WithDetails(map[string]any{"productId": productID, "requested": requested, "available": available})
}
