package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/payos"
)

const providerSuccessCode = "00"

const orderCodeRetries = 5

// Service drives hosted-checkout payments: link creation with pending-reuse,
// webhook reconciliation, manual reset and the timeout sweep. Webhook
// settlement is the single stock deduction path for gateway orders.
type Service interface {
	Create(ctx context.Context, orderID, userID uuid.UUID) (*models.Payment, error)
	HandleWebhook(ctx context.Context, payload WebhookPayload) error
	Reset(ctx context.Context, orderID, userID uuid.UUID) error
	ExpireStale(ctx context.Context) (int64, error)
	ListByOrder(ctx context.Context, orderID, userID uuid.UUID) ([]models.Payment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	orders    orders.Repository
	carts     cart.Service
	allocator batches.Allocator
	provider  payos.Provider
	tx        txRunner
	cfg       config.PayOSConfig
	now       func() time.Time
}

// NewService builds the payment service with the required dependencies.
func NewService(
	repo Repository,
	orderRepo orders.Repository,
	carts cart.Service,
	allocator batches.Allocator,
	provider payos.Provider,
	tx txRunner,
	cfg config.PayOSConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("stock allocator required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		orders:    orderRepo,
		carts:     carts,
		allocator: allocator,
		provider:  provider,
		tx:        tx,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, orderID, userID uuid.UUID) (*models.Payment, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentMethod.UsesGateway() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not paid through the gateway")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
	}
	if order.PaymentStatus == enums.OrderPaymentStatusSuccess {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	now := s.now()

	if reused, err := s.reusePending(ctx, order.ID, now); err != nil {
		return nil, err
	} else if reused != nil {
		return reused, nil
	}

	items := 0
	var subtotal int64
	for _, detail := range order.Details {
		if detail.Quantity <= 0 || detail.UnitPrice <= 0 {
			continue
		}
		items++
		subtotal += detail.Subtotal()
	}
	if items == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no payable items")
	}
	amount := subtotal + order.ShippingFee

	orderCode, err := s.nextOrderCode(ctx, now)
	if err != nil {
		return nil, err
	}

	req := payos.CreateLinkRequest{
		OrderCode:   orderCode,
		Amount:      amount,
		Description: fmt.Sprintf("DH%d", orderCode),
		ReturnURL:   s.cfg.ReturnURL,
		CancelURL:   s.cfg.CancelURL,
	}
	req.Signature = payos.SignCreateLink(s.cfg.ChecksumKey, req)

	linkCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	link, err := s.provider.CreatePaymentLink(linkCtx, req)
	if err != nil {
		// No Payment row exists yet, so a gateway failure leaves nothing
		// behind to sweep.
		return nil, err
	}

	timeout := now.Add(s.cfg.PaymentTTL)
	payment := &models.Payment{
		ID:                uuid.New(),
		OrderID:           order.ID,
		UserID:            userID,
		Method:            order.PaymentMethod,
		Amount:            amount,
		Subtotal:          subtotal,
		ShippingFee:       order.ShippingFee,
		ProviderOrderCode: orderCode,
		Status:            enums.PaymentStatusPending,
		PaymentURL:        link.CheckoutURL,
		PaymentTimeout:    &timeout,
	}
	if _, err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	return payment, nil
}

// reusePending returns a young pending payment whose link the provider still
// reports as open; anything else pending is failed so a fresh link can be
// minted.
func (s *service) reusePending(ctx context.Context, orderID uuid.UUID, now time.Time) (*models.Payment, error) {
	pending, err := s.repo.FindPendingByOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending payment")
	}

	if now.Sub(pending.CreatedAt) < s.cfg.PendingReuseWindow {
		infoCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		info, err := s.provider.GetPaymentLinkInformation(infoCtx, pending.ProviderOrderCode)
		cancel()
		if err == nil && info.Status == payos.StatusPending {
			return pending, nil
		}
	}

	if err := s.repo.Update(ctx, pending.ID, map[string]any{
		"status":       enums.PaymentStatusFailed,
		"cancelled_at": now,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fail stale payment")
	}
	return nil, nil
}

// nextOrderCode derives a provider order code from the clock: the last nine
// digits of the epoch in milliseconds, retried while a pending payment still
// claims the candidate.
func (s *service) nextOrderCode(ctx context.Context, now time.Time) (int64, error) {
	for attempt := 0; attempt < orderCodeRetries; attempt++ {
		candidate := (now.UnixMilli() + int64(attempt)) % 1_000_000_000
		inUse, err := s.repo.CodeInUse(ctx, candidate)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order code")
		}
		if !inUse {
			return candidate, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a payment order code")
}

func (s *service) HandleWebhook(ctx context.Context, payload WebhookPayload) error {
	if len(payload.Data) == 0 {
		// Provider liveness probes post empty bodies.
		return nil
	}
	if !payos.VerifyWebhookSignature(s.cfg.ChecksumKey, payload.Data, payload.Signature) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature")
	}

	orderCode, ok := orderCodeFromData(payload.Data)
	if !ok {
		return nil
	}

	payment, err := s.repo.FindByProviderOrderCode(ctx, orderCode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Codes we never issued are acknowledged, not errored, so the
			// provider stops retrying.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.Status.IsTerminal() {
		return nil
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		order, err := orderRepo.FindForUpdate(ctx, payment.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCancelled {
			return nil
		}

		now := s.now()

		if payload.Code != providerSuccessCode {
			if err := repo.Update(ctx, payment.ID, map[string]any{"status": enums.PaymentStatusFailed}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fail payment")
			}
			return orderRepo.Update(ctx, order.ID, map[string]any{"payment_status": enums.OrderPaymentStatusFailed})
		}

		updates := map[string]any{
			"status":  enums.PaymentStatusCompleted,
			"paid_at": now,
		}
		if reference := stringFromData(payload.Data, "reference"); reference != "" {
			updates["transaction_id"] = reference
		}
		if err := repo.Update(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete payment")
		}

		orderUpdates := map[string]any{"payment_status": enums.OrderPaymentStatusSuccess}
		if !order.StockDeducted {
			details, err := orderRepo.ListDetails(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order details")
			}
			lines := make([]batches.Line, 0, len(details))
			for _, detail := range details {
				lines = append(lines, batches.Line{ProductID: detail.ProductID, Quantity: detail.Quantity})
			}
			if err := s.allocator.Deduct(ctx, tx, order.ID, lines, payment.UserID); err != nil {
				return err
			}
			orderUpdates["stock_deducted"] = true
		}
		if err := orderRepo.Update(ctx, order.ID, orderUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle order")
		}

		if order.CustomerID != nil {
			return s.carts.ClearInTx(ctx, tx, *order.CustomerID)
		}
		return nil
	})
}

func (s *service) Reset(ctx context.Context, orderID, userID uuid.UUID) error {
	if _, err := s.loadOwnedOrder(ctx, orderID, userID); err != nil {
		return err
	}
	if _, err := s.repo.FailPendingByOrder(ctx, orderID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset payments")
	}
	return nil
}

func (s *service) ExpireStale(ctx context.Context) (int64, error) {
	swept, err := s.repo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire stale payments")
	}
	return swept, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID, userID uuid.UUID) ([]models.Payment, error) {
	if _, err := s.loadOwnedOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return list, nil
}

func (s *service) loadOwnedOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID == nil || *order.CustomerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}
	return order, nil
}

func orderCodeFromData(data map[string]any) (int64, bool) {
	switch value := data["orderCode"].(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case int:
		return int64(value), true
	case json.Number:
		code, err := value.Int64()
		return code, err == nil
	case string:
		code, err := strconv.ParseInt(value, 10, 64)
		return code, err == nil
	default:
		return 0, false
	}
}

func stringFromData(data map[string]any, key string) string {
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
