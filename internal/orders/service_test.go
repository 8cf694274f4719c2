package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

type ordersTestEnv struct {
	conn        *gorm.DB
	svc         Service
	repo        Repository
	cartSvc     cart.Service
	productRepo products.Repository
	customerID  uuid.UUID
	staffID     uuid.UUID
}

func setupOrdersTest(t *testing.T) *ordersTestEnv {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(productsTableSQL).Error)
	require.NoError(t, conn.AutoMigrate(
		&models.Supplier{},
		&models.Batch{},
		&models.StockMovement{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
	))

	client := db.NewWithConn(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	batchRepo := batches.NewRepository(conn)
	repo := NewRepository(conn)

	stockCfg := config.StockConfig{LowStockThreshold: 10, ExpiringSoonDays: 30, AutoSaleDays: 30}

	cartSvc, err := cart.NewService(cartRepo, productRepo, client, stockCfg)
	require.NoError(t, err)

	alloc, err := batches.NewAllocator(batchRepo, productRepo)
	require.NoError(t, err)

	svc, err := NewService(repo, productRepo, cartSvc, alloc, client, config.CheckoutConfig{ShippingFeeVND: 30000}, stockCfg)
	require.NoError(t, err)

	return &ordersTestEnv{
		conn:        conn,
		svc:         svc,
		repo:        repo,
		cartSvc:     cartSvc,
		productRepo: productRepo,
		customerID:  uuid.New(),
		staffID:     uuid.New(),
	}
}

func (e *ordersTestEnv) createProduct(t *testing.T, stock int, price int64, createdBy uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Test Product",
		Price:         price,
		StockQuantity: stock,
		CreatedBy:     createdBy,
	}
	require.NoError(t, e.conn.Create(product).Error)
	return product
}

func (e *ordersTestEnv) activeBatch(t *testing.T, productID uuid.UUID, remaining int, expiry time.Time) *models.Batch {
	t.Helper()
	batch := &models.Batch{
		ID:                uuid.New(),
		BatchCode:         "BATCH-" + uuid.NewString()[:8],
		ProductID:         productID,
		SupplierID:        uuid.New(),
		Quantity:          remaining,
		RemainingQuantity: remaining,
		UnitCost:          40000,
		MfgDate:           time.Now().AddDate(0, -2, 0),
		ExpiryDate:        expiry,
		Status:            enums.BatchStatusActive,
		CreatedBy:         e.staffID,
	}
	require.NoError(t, e.conn.Create(batch).Error)
	return batch
}

func (e *ordersTestEnv) placeOrder(t *testing.T, method enums.PaymentMethod, items ...ItemInput) *models.Order {
	t.Helper()
	order, err := e.svc.Create(context.Background(), CreateInput{
		CustomerID:      e.customerID,
		RecipientName:   "Ngoc Anh",
		Phone:           "0901234567",
		ShippingAddress: "12 Hai Ba Trung, Ha Noi",
		PaymentMethod:   method,
		Items:           items,
	})
	require.NoError(t, err)
	return order
}

func (e *ordersTestEnv) orderMovements(t *testing.T, orderID uuid.UUID) []models.StockMovement {
	t.Helper()
	var movements []models.StockMovement
	require.NoError(t, e.conn.Where("reference_id = ?", orderID).Find(&movements).Error)
	return movements
}

func (e *ordersTestEnv) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	product, err := e.productRepo.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return product.StockQuantity
}

func TestCreateFromCart(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 10, 50000, env.staffID)

	_, err := env.cartSvc.AddItem(ctx, env.customerID, product.ID, 2)
	require.NoError(t, err)

	order, err := env.svc.Create(ctx, CreateInput{
		CustomerID:      env.customerID,
		RecipientName:   "Ngoc Anh",
		Phone:           "0901234567",
		ShippingAddress: "12 Hai Ba Trung, Ha Noi",
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.OrderPaymentStatusPending, order.PaymentStatus)
	assert.False(t, order.StockDeducted)
	assert.Equal(t, int64(100000), order.Subtotal)
	assert.Equal(t, int64(30000), order.ShippingFee)
	assert.Equal(t, int64(130000), order.TotalAmount)
	require.Len(t, order.Details, 1)
	assert.Equal(t, 2, order.Details[0].Quantity)
	assert.Equal(t, int64(50000), order.Details[0].UnitPrice)

	// Checkout clears the cart atomically with order creation.
	clearedCart, err := env.cartSvc.GetOrCreate(ctx, env.customerID)
	require.NoError(t, err)
	assert.Empty(t, clearedCart.Items)
	assert.Zero(t, clearedCart.TotalAmount)

	// Placing the order reserves nothing.
	assert.Equal(t, 10, env.productStock(t, product.ID))
}

func TestCreateEmptyCartRejected(t *testing.T) {
	env := setupOrdersTest(t)

	_, err := env.svc.Create(context.Background(), CreateInput{
		CustomerID:      env.customerID,
		RecipientName:   "Ngoc Anh",
		Phone:           "0901234567",
		ShippingAddress: "12 Hai Ba Trung, Ha Noi",
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateDirectInsufficientStock(t *testing.T) {
	env := setupOrdersTest(t)
	product := env.createProduct(t, 1, 50000, env.staffID)

	_, err := env.svc.Create(context.Background(), CreateInput{
		CustomerID:      env.customerID,
		RecipientName:   "Ngoc Anh",
		Phone:           "0901234567",
		ShippingAddress: "12 Hai Ba Trung, Ha Noi",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []ItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficient, pkgerrors.As(err).Code())
}

func TestCreateDirectCapturesEffectivePrice(t *testing.T) {
	env := setupOrdersTest(t)
	product := env.createProduct(t, 10, 100000, env.staffID)
	expiry := time.Now().AddDate(0, 0, 10)
	require.NoError(t, env.conn.Model(&models.Product{}).Where("id = ?", product.ID).Update("expiry_date", expiry).Error)

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 1})

	require.Len(t, order.Details, 1)
	assert.Equal(t, int64(90000), order.Details[0].UnitPrice)
}

func TestCODLifecycle(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	batch := env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})

	updated, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.True(t, updated.StockDeducted)
	assert.Equal(t, 3, env.productStock(t, product.ID))

	var reloaded models.Batch
	require.NoError(t, env.conn.First(&reloaded, "id = ?", batch.ID).Error)
	assert.Equal(t, 3, reloaded.RemainingQuantity)

	movements := env.orderMovements(t, order.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, -2, movements[0].Quantity)
	assert.Equal(t, models.MovementReasonSale, movements[0].Reason)

	// Lateral move touches no stock.
	updated, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusShipping, ActorID: env.staffID})
	require.NoError(t, err)
	assert.True(t, updated.StockDeducted)
	assert.Equal(t, 3, env.productStock(t, product.ID))
	assert.Len(t, env.orderMovements(t, order.ID), 1)

	// Delivery settles a COD payment.
	updated, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusDelivered, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPaymentStatusSuccess, updated.PaymentStatus)

	updated, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusCompleted, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)
	assert.Equal(t, enums.OrderPaymentStatusSuccess, updated.PaymentStatus)
}

func TestUpdateStatusIdempotent(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})

	_, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)

	assert.Equal(t, 3, env.productStock(t, product.ID))
	assert.Len(t, env.orderMovements(t, order.ID), 1)
}

func TestForwardBackwardSymmetry(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})

	_, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, 3, env.productStock(t, product.ID))

	reverted, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusPending, ActorID: env.staffID})
	require.NoError(t, err)
	assert.False(t, reverted.StockDeducted)
	assert.Equal(t, 5, env.productStock(t, product.ID))

	movements := env.orderMovements(t, order.ID)
	require.Len(t, movements, 2)
	reasons := []string{movements[0].Reason, movements[1].Reason}
	assert.Contains(t, reasons, models.MovementReasonSale)
	assert.Contains(t, reasons, models.MovementReasonOrderReverted)

	// Going forward again deducts again, exactly once.
	again, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	assert.True(t, again.StockDeducted)
	assert.Equal(t, 3, env.productStock(t, product.ID))
	assert.Len(t, env.orderMovements(t, order.ID), 3)
}

func TestCancelByCustomer(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})

	_, err := env.svc.CancelByCustomer(ctx, order.ID, uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	cancelled, err := env.svc.CancelByCustomer(ctx, order.ID, env.customerID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, enums.OrderPaymentStatusCancelled, cancelled.PaymentStatus)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "Cancelled by customer", *cancelled.CancelReason)

	// Stock was never taken, so nothing moves back.
	assert.Equal(t, 5, env.productStock(t, product.ID))
	assert.Empty(t, env.orderMovements(t, order.ID))

	_, err = env.svc.CancelByCustomer(ctx, order.ID, env.customerID, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCancelByCustomerOnlyFromPending(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})
	_, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)

	_, err = env.svc.CancelByCustomer(ctx, order.ID, env.customerID, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestStaffCancelRestoresStock(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})
	_, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusCancelled, ActorID: env.staffID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	reason := "customer unreachable"
	cancelled, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusCancelled, ActorID: env.staffID, CancelReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.StockDeducted)
	assert.Equal(t, 5, env.productStock(t, product.ID))

	var restores []models.StockMovement
	require.NoError(t, env.conn.Where("reference_id = ? AND reason = ?", order.ID, models.MovementReasonOrderCancelled).Find(&restores).Error)
	require.Len(t, restores, 1)
	assert.Equal(t, 2, restores[0].Quantity)

	// Cancelled is terminal.
	_, err = env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestOnlineOrderStaffTransitionTouchesNoStock(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)
	env.activeBatch(t, product.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodOnline, ItemInput{ProductID: product.ID, Quantity: 2})

	updated, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.False(t, updated.StockDeducted)
	assert.Equal(t, 5, env.productStock(t, product.ID))
	assert.Empty(t, env.orderMovements(t, order.ID))
}

func TestUpdateStatusForCreatorScopesStockDeltas(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	otherStaff := uuid.New()
	mine := env.createProduct(t, 5, 50000, env.staffID)
	theirs := env.createProduct(t, 5, 60000, otherStaff)
	env.activeBatch(t, mine.ID, 5, time.Now().AddDate(1, 0, 0))
	env.activeBatch(t, theirs.ID, 5, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD,
		ItemInput{ProductID: mine.ID, Quantity: 2},
		ItemInput{ProductID: theirs.ID, Quantity: 1},
	)

	updated, err := env.svc.UpdateStatusForCreator(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusProcessing, ActorID: env.staffID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.True(t, updated.StockDeducted)
	assert.Equal(t, 3, env.productStock(t, mine.ID))
	assert.Equal(t, 5, env.productStock(t, theirs.ID))

	_, err = env.svc.UpdateStatusForCreator(ctx, UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusShipping, ActorID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdatePaymentStatus(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 5, 50000, env.staffID)

	cashOrder := env.placeOrder(t, enums.PaymentMethodCash, ItemInput{ProductID: product.ID, Quantity: 1})
	updated, err := env.svc.UpdatePaymentStatus(ctx, cashOrder.ID, enums.OrderPaymentStatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPaymentStatusSuccess, updated.PaymentStatus)

	onlineOrder := env.placeOrder(t, enums.PaymentMethodOnline, ItemInput{ProductID: product.ID, Quantity: 1})
	_, err = env.svc.UpdatePaymentStatus(ctx, onlineOrder.ID, enums.OrderPaymentStatusSuccess)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// A cancellation that lands first must be observed inside the same
	// locked transaction the other transitions use.
	cancelled := env.placeOrder(t, enums.PaymentMethodCash, ItemInput{ProductID: product.ID, Quantity: 1})
	_, err = env.svc.CancelByCustomer(ctx, cancelled.ID, env.customerID, nil)
	require.NoError(t, err)
	_, err = env.svc.UpdatePaymentStatus(ctx, cancelled.ID, enums.OrderPaymentStatusSuccess)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestGetEnforcesOwnership(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	otherStaff := uuid.New()
	mine := env.createProduct(t, 5, 50000, env.staffID)
	theirs := env.createProduct(t, 5, 60000, otherStaff)

	order := env.placeOrder(t, enums.PaymentMethodCOD,
		ItemInput{ProductID: mine.ID, Quantity: 1},
		ItemInput{ProductID: theirs.ID, Quantity: 1},
	)

	got, err := env.svc.Get(ctx, order.ID, Actor{UserID: env.customerID, Role: enums.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, got.Details, 2)

	_, err = env.svc.Get(ctx, order.ID, Actor{UserID: uuid.New(), Role: enums.RoleCustomer})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	staffView, err := env.svc.Get(ctx, order.ID, Actor{UserID: env.staffID, Role: enums.RoleStaff})
	require.NoError(t, err)
	require.Len(t, staffView.Details, 1)
	assert.Equal(t, mine.ID, staffView.Details[0].ProductID)

	adminView, err := env.svc.Get(ctx, order.ID, Actor{UserID: uuid.New(), Role: enums.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, adminView.Details, 2)
}

func TestListMineAndManage(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 10, 50000, env.staffID)

	first := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 1})
	env.placeOrder(t, enums.PaymentMethodCash, ItemInput{ProductID: product.ID, Quantity: 2})

	listed, meta, err := env.svc.ListMine(ctx, Actor{UserID: env.customerID, Role: enums.RoleCustomer}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, int64(2), meta.Total)

	staffListed, _, err := env.svc.ListMine(ctx, Actor{UserID: env.staffID, Role: enums.RoleStaff}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, staffListed, 2)

	_, err = env.svc.CancelByCustomer(ctx, first.ID, env.customerID, nil)
	require.NoError(t, err)

	status := enums.OrderStatusCancelled
	managed, meta, err := env.svc.Manage(ctx, pagination.Params{}, Filters{Status: &status})
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, first.ID, managed[0].ID)
	assert.Equal(t, int64(1), meta.Total)
}

func TestStats(t *testing.T) {
	env := setupOrdersTest(t)
	ctx := context.Background()
	product := env.createProduct(t, 10, 50000, env.staffID)
	env.activeBatch(t, product.ID, 10, time.Now().AddDate(1, 0, 0))

	order := env.placeOrder(t, enums.PaymentMethodCOD, ItemInput{ProductID: product.ID, Quantity: 2})
	env.placeOrder(t, enums.PaymentMethodCash, ItemInput{ProductID: product.ID, Quantity: 1})

	for _, status := range []enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusShipping, enums.OrderStatusDelivered} {
		_, err := env.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: order.ID, Status: status, ActorID: env.staffID})
		require.NoError(t, err)
	}

	stats, err := env.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.ByStatus[string(enums.OrderStatusDelivered)])
	assert.Equal(t, int64(1), stats.ByStatus[string(enums.OrderStatusPending)])
	assert.Equal(t, int64(1), stats.ByPaymentStatus[string(enums.OrderPaymentStatusSuccess)])
	// One delivered COD order at 2*50000 + 30000 shipping.
	assert.Equal(t, "130000", stats.Revenue.String())
	assert.Len(t, stats.Recent, 2)
}
