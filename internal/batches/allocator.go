package batches

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

// Allocator applies order-driven stock changes inside a caller transaction.
// Deduct consumes batches soonest-expiry-first; Restore returns stock at the
// product level only, since sold units cannot be reassigned to a batch.
type Allocator interface {
	Deduct(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID uuid.UUID) error
	Restore(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID uuid.UUID, reason string) error
}

type allocator struct {
	batches  Repository
	products products.Repository
	now      func() time.Time
}

// NewAllocator builds the FIFO stock allocator.
func NewAllocator(batchRepo Repository, productRepo products.Repository) (Allocator, error) {
	if batchRepo == nil {
		return nil, fmt.Errorf("batches repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &allocator{batches: batchRepo, products: productRepo, now: time.Now}, nil
}

func (a *allocator) Deduct(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock deduction")
	}
	batchRepo := a.batches.WithTx(tx)
	productRepo := a.products.WithTx(tx)
	refModel := enums.ReferenceModelOrder
	now := a.now()

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		allocatable, err := batchRepo.FindAllocatable(ctx, line.ProductID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load allocatable batches")
		}

		if len(allocatable) > 0 {
			available := 0
			for _, batch := range allocatable {
				available += batch.RemainingQuantity
			}
			if available < line.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").
					WithDetails(map[string]any{"productId": line.ProductID, "requested": line.Quantity, "available": available})
			}

			need := line.Quantity
			for _, batch := range allocatable {
				if need == 0 {
					break
				}
				take := batch.RemainingQuantity
				if take > need {
					take = need
				}
				if err := batchRepo.Update(ctx, batch.ID, map[string]any{
					"remaining_quantity": gorm.Expr("remaining_quantity - ?", take),
				}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume batch")
				}

				batchID := batch.ID
				orderRef := orderID
				movement := &models.StockMovement{
					ID:             uuid.New(),
					Type:           enums.MovementTypeOut,
					ProductID:      line.ProductID,
					BatchID:        &batchID,
					Quantity:       -take,
					UnitCost:       batch.UnitCost,
					TotalValue:     models.NewTotalValue(take, batch.UnitCost),
					Reason:         models.MovementReasonSale,
					ReferenceModel: &refModel,
					ReferenceID:    &orderRef,
					PerformedBy:    actorID,
					Status:         enums.MovementStatusCompleted,
				}
				if err := batchRepo.CreateMovement(ctx, movement); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
				}
				need -= take
			}

			if err := productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").
						WithDetails(map[string]any{"productId": line.ProductID, "requested": line.Quantity})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement product stock")
			}
			continue
		}

		// No batch coverage: the product-level counter is authoritative.
		if err := productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").
					WithDetails(map[string]any{"productId": line.ProductID, "requested": line.Quantity})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement product stock")
		}

		orderRef := orderID
		movement := &models.StockMovement{
			ID:             uuid.New(),
			Type:           enums.MovementTypeOut,
			ProductID:      line.ProductID,
			Quantity:       -line.Quantity,
			TotalValue:     models.NewTotalValue(line.Quantity, 0),
			Reason:         models.MovementReasonSale,
			ReferenceModel: &refModel,
			ReferenceID:    &orderRef,
			PerformedBy:    actorID,
			Status:         enums.MovementStatusCompleted,
		}
		if err := batchRepo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}
	}
	return nil
}

func (a *allocator) Restore(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []Line, actorID uuid.UUID, reason string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock restore")
	}
	batchRepo := a.batches.WithTx(tx)
	productRepo := a.products.WithTx(tx)
	refModel := enums.ReferenceModelOrder

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if err := productRepo.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore product stock")
		}

		orderRef := orderID
		movement := &models.StockMovement{
			ID:             uuid.New(),
			Type:           enums.MovementTypeReturn,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			TotalValue:     models.NewTotalValue(line.Quantity, 0),
			Reason:         reason,
			ReferenceModel: &refModel,
			ReferenceID:    &orderRef,
			PerformedBy:    actorID,
			Status:         enums.MovementStatusCompleted,
		}
		if err := batchRepo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}
	}
	return nil
}
