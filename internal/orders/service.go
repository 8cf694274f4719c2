package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

const defaultCancelReason = "Cancelled by customer"

const recentOrdersLimit = 10

// Service is the order lifecycle. Every status transition runs in a single
// transaction under a row lock on the order, and the StockDeducted flag keeps
// inventory deduction at-most-once across staff transitions and the payment
// webhook.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error)
	ListMine(ctx context.Context, actor Actor, params pagination.Params) ([]models.Order, pagination.Meta, error)
	Manage(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, pagination.Meta, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	UpdateStatusForCreator(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderPaymentStatus) (*models.Order, error)
	CancelByCustomer(ctx context.Context, orderID, customerID uuid.UUID, reason *string) (*models.Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	products  products.Repository
	carts     cart.Service
	allocator batches.Allocator
	tx        txRunner
	checkout  config.CheckoutConfig
	stock     config.StockConfig
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(
	repo Repository,
	productRepo products.Repository,
	carts cart.Service,
	allocator batches.Allocator,
	tx txRunner,
	checkout config.CheckoutConfig,
	stock config.StockConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("stock allocator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		products:  productRepo,
		carts:     carts,
		allocator: allocator,
		tx:        tx,
		checkout:  checkout,
		stock:     stock,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.RecipientName) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient name, phone and shipping address are required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	fromCart := len(input.Items) == 0
	details, subtotal, err := s.buildDetails(ctx, input)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      &input.CustomerID,
		RecipientName:   input.RecipientName,
		Phone:           input.Phone,
		ShippingAddress: input.ShippingAddress,
		Note:            input.Note,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.OrderPaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingFee:     s.checkout.ShippingFeeVND,
		TotalAmount:     subtotal + s.checkout.ShippingFeeVND,
		Details:         details,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if fromCart {
			return s.carts.ClearInTx(ctx, tx, input.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, order.ID)
}

// buildDetails resolves the order lines either from the explicit item list
// or from the customer's cart, validating visible stock along the way. Cart
// lines keep the unit price captured when the item was added; direct lines
// take the current effective price.
func (s *service) buildDetails(ctx context.Context, input CreateInput) ([]models.OrderDetail, int64, error) {
	now := s.now()
	var details []models.OrderDetail

	if len(input.Items) > 0 {
		for _, item := range input.Items {
			if item.Quantity <= 0 {
				return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
			}
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"productId": item.ProductID})
				}
				return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if product.StockQuantity < item.Quantity {
				return nil, 0, insufficientStock(item.ProductID, item.Quantity, product.StockQuantity)
			}
			details = append(details, models.OrderDetail{
				ID:        uuid.New(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: products.EffectivePrice(*product, now, s.stock.AutoSaleDays),
			})
		}
	} else {
		customerCart, err := s.carts.GetOrCreate(ctx, input.CustomerID)
		if err != nil {
			return nil, 0, err
		}
		if len(customerCart.Items) == 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		for _, item := range customerCart.Items {
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"productId": item.ProductID})
				}
				return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if product.StockQuantity < item.Quantity {
				return nil, 0, insufficientStock(item.ProductID, item.Quantity, product.StockQuantity)
			}
			details = append(details, models.OrderDetail{
				ID:        uuid.New(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
	}

	var subtotal int64
	for _, detail := range details {
		subtotal += detail.Subtotal()
	}
	return details, subtotal, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch actor.Role {
	case enums.RoleAdmin:
		return order, nil
	case enums.RoleStaff:
		mine, err := s.products.ListCreatedBy(ctx, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff products")
		}
		filtered := filterDetails(order.Details, mine)
		if len(filtered) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order contains none of your products")
		}
		order.Details = filtered
		return order, nil
	default:
		if order.CustomerID == nil || *order.CustomerID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
		}
		return order, nil
	}
}

func (s *service) ListMine(ctx context.Context, actor Actor, params pagination.Params) ([]models.Order, pagination.Meta, error) {
	params = pagination.Normalize(params)

	if actor.Role == enums.RoleStaff {
		mine, err := s.products.ListCreatedBy(ctx, actor.UserID)
		if err != nil {
			return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff products")
		}
		ordersList, total, err := s.repo.ListContainingProducts(ctx, mine, params)
		if err != nil {
			return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
		}
		for i := range ordersList {
			ordersList[i].Details = filterDetails(ordersList[i].Details, mine)
		}
		return ordersList, pagination.NewMeta(params, total), nil
	}

	ordersList, total, err := s.repo.ListByCustomer(ctx, actor.UserID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ordersList, pagination.NewMeta(params, total), nil
}

func (s *service) Manage(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, pagination.Meta, error) {
	params = pagination.Normalize(params)
	ordersList, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ordersList, pagination.NewMeta(params, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	return s.transition(ctx, input, nil)
}

func (s *service) UpdateStatusForCreator(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	mine, err := s.products.ListCreatedBy(ctx, input.ActorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff products")
	}
	if len(mine) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order contains none of your products")
	}
	return s.transition(ctx, input, mine)
}

// transition applies one status change under a row lock. When ownedProducts
// is non-nil, stock deltas are restricted to the caller's products while the
// StockDeducted flag still flips for the whole order.
func (s *service) transition(ctx context.Context, input UpdateStatusInput, ownedProducts []uuid.UUID) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == input.Status {
			// Re-sending the current status is a no-op, not an error.
			return nil
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
		}

		details, err := repo.ListDetails(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order details")
		}
		lines := detailLines(details, ownedProducts)
		if ownedProducts != nil && len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order contains none of your products")
		}

		if input.Status == enums.OrderStatusCancelled {
			reason := strings.TrimSpace(derefString(input.CancelReason))
			if reason == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "cancel reason is required")
			}
			return s.cancelLocked(ctx, tx, repo, order, lines, input.ActorID, reason)
		}

		updates := map[string]any{"status": input.Status}

		// Online orders get their stock movements from the payment webhook;
		// every other method is driven by staff transitions here.
		newRank, _ := input.Status.Rank()
		if order.PaymentMethod != enums.PaymentMethodOnline {
			switch {
			case newRank >= 1 && !order.StockDeducted:
				if err := s.allocator.Deduct(ctx, tx, order.ID, lines, input.ActorID); err != nil {
					return err
				}
				updates["stock_deducted"] = true
			case newRank == 0 && order.StockDeducted:
				if err := s.allocator.Restore(ctx, tx, order.ID, lines, input.ActorID, models.MovementReasonOrderReverted); err != nil {
					return err
				}
				updates["stock_deducted"] = false
			}
		}

		if order.PaymentStatus == enums.OrderPaymentStatusPending && paymentSettledBy(order.PaymentMethod, input.Status) {
			updates["payment_status"] = enums.OrderPaymentStatusSuccess
		}

		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, input.OrderID)
}

func (s *service) CancelByCustomer(ctx context.Context, orderID, customerID uuid.UUID, reason *string) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindForUpdate(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.CustomerID == nil || *order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		details, err := repo.ListDetails(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order details")
		}

		cancelReason := strings.TrimSpace(derefString(reason))
		if cancelReason == "" {
			cancelReason = defaultCancelReason
		}
		return s.cancelLocked(ctx, tx, repo, order, detailLines(details, nil), customerID, cancelReason)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, orderID)
}

// cancelLocked finishes a cancellation for an order already loaded under the
// row lock: return stock if it had been taken, then mark the order.
func (s *service) cancelLocked(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, lines []batches.Line, actorID uuid.UUID, reason string) error {
	updates := map[string]any{
		"status":         enums.OrderStatusCancelled,
		"payment_status": enums.OrderPaymentStatusCancelled,
		"cancel_reason":  reason,
	}
	if order.StockDeducted {
		if err := s.allocator.Restore(ctx, tx, order.ID, lines, actorID, models.MovementReasonOrderCancelled); err != nil {
			return err
		}
		updates["stock_deducted"] = false
	}
	if err := repo.Update(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderPaymentStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindForUpdate(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.PaymentMethod == enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeValidation, "online payments are reconciled by the gateway")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
		}

		if err := repo.Update(ctx, orderID, map[string]any{"payment_status": status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, orderID)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	byPayment, err := s.repo.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by payment status")
	}
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	recent, err := s.repo.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}
	return &Stats{
		TotalOrders:     total,
		ByStatus:        byStatus,
		ByPaymentStatus: byPayment,
		Revenue:         revenue,
		Recent:          recent,
	}, nil
}

// paymentSettledBy reports whether reaching the target status settles the
// order's payment for methods collected outside the gateway: cash on
// delivery settles at delivery, counter methods settle at completion.
func paymentSettledBy(method enums.PaymentMethod, status enums.OrderStatus) bool {
	switch method {
	case enums.PaymentMethodCOD:
		return status == enums.OrderStatusDelivered || status == enums.OrderStatusCompleted
	case enums.PaymentMethodCash, enums.PaymentMethodBank:
		return status == enums.OrderStatusCompleted
	default:
		return false
	}
}

// detailLines converts order details into allocator lines. A non-nil owned
// filter keeps only products created by the acting staff member.
func detailLines(details []models.OrderDetail, owned []uuid.UUID) []batches.Line {
	ownedSet := map[uuid.UUID]struct{}{}
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}
	var lines []batches.Line
	for _, detail := range details {
		if owned != nil {
			if _, ok := ownedSet[detail.ProductID]; !ok {
				continue
			}
		}
		lines = append(lines, batches.Line{ProductID: detail.ProductID, Quantity: detail.Quantity})
	}
	return lines
}

func filterDetails(details []models.OrderDetail, owned []uuid.UUID) []models.OrderDetail {
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}
	var filtered []models.OrderDetail
	for _, detail := range details {
		if _, ok := ownedSet[detail.ProductID]; ok {
			filtered = append(filtered, detail)
		}
	}
	return filtered
}

func insufficientStock(productID uuid.UUID, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").
		WithDetails(map[string]any{"productId": productID, "requested": requested, "available": available})
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
