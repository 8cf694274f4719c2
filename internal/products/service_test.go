package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

func setupProductsTest(t *testing.T) (*service, Repository, *gorm.DB) {
	t.Helper()

	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(productsTableSQL).Error)

	repo := NewRepository(conn)
	svc, err := NewService(repo, config.StockConfig{
		LowStockThreshold: 10,
		ExpiringSoonDays:  30,
		AutoSaleDays:      30,
	})
	require.NoError(t, err)
	return svc.(*service), repo, conn
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()
	staffID := uuid.New()

	product, err := svc.Create(ctx, staffID, CreateInput{
		Name:     "Vitamin C Serum",
		Price:    150000,
		Stock:    20,
		Benefits: []string{"brightening", "antioxidant"},
	})
	require.NoError(t, err)
	assert.Equal(t, staffID, product.CreatedBy)
	assert.Equal(t, 20, product.StockQuantity)
	assert.False(t, product.IsOnSale)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), CreateInput{Name: "", Price: 100})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, uuid.New(), CreateInput{Name: "Free", Price: 0})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, uuid.Nil, CreateInput{Name: "No Actor", Price: 100})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAutoSaleDecorationNearExpiry(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 0, 10)
	created, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Expiring Cream",
		Price:      100000,
		Stock:      5,
		ExpiryDate: &expiry,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOnSale)
	require.NotNil(t, got.SalePrice)
	assert.Equal(t, int64(90000), *got.SalePrice)
}

func TestAutoSaleBoundary(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	// Just outside the 30-day window: no automatic discount.
	farExpiry := time.Now().AddDate(0, 0, 45)
	far, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Fresh Stock",
		Price:      100000,
		Stock:      5,
		ExpiryDate: &farExpiry,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, far.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOnSale)
	assert.Nil(t, got.SalePrice)

	// Already expired: no discount either.
	pastExpiry := time.Now().AddDate(0, 0, -1)
	expired, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Expired",
		Price:      100000,
		ExpiryDate: &pastExpiry,
	})
	require.NoError(t, err)

	got, err = svc.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOnSale)
}

func TestManualSaleWinsWhenLower(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 0, 10)
	manual := int64(80000)
	created, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Deep Discount",
		Price:      100000,
		ExpiryDate: &expiry,
		SalePrice:  &manual,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SalePrice)
	assert.Equal(t, int64(80000), *got.SalePrice)
}

func TestManualSaleRejectedFarFromExpiry(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	farExpiry := time.Now().AddDate(1, 0, 0)
	manual := int64(50000)
	_, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Too Early",
		Price:      100000,
		ExpiryDate: &farExpiry,
		SalePrice:  &manual,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Sale price at or above list price is invalid even near expiry.
	nearExpiry := time.Now().AddDate(0, 0, 5)
	tooHigh := int64(100000)
	_, err = svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Not A Discount",
		Price:      100000,
		ExpiryDate: &nearExpiry,
		SalePrice:  &tooHigh,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAdjustStockGuard(t *testing.T) {
	svc, repo, _ := setupProductsTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateInput{Name: "Guarded", Price: 1000, Stock: 3})
	require.NoError(t, err)

	require.NoError(t, repo.AdjustStock(ctx, created.ID, -3))

	err = repo.AdjustStock(ctx, created.ID, -1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.AdjustStock(ctx, created.ID, 5))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()
	staffID := uuid.New()

	category := "skincare"
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, staffID, CreateInput{
			Name:     "Skincare Item",
			Category: &category,
			Price:    1000,
			Stock:    1,
		})
		require.NoError(t, err)
	}
	other := "haircare"
	_, err := svc.Create(ctx, staffID, CreateInput{Name: "Shampoo", Category: &other, Price: 1000})
	require.NoError(t, err)

	rows, meta, err := svc.List(ctx, pagination.Params{Page: 1, Limit: 2}, Filters{Category: &category})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(3), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	inStock := true
	rows, _, err = svc.List(ctx, pagination.Params{}, Filters{InStock: &inStock})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestUpdateClearSale(t *testing.T) {
	svc, _, _ := setupProductsTest(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 0, 10)
	manual := int64(70000)
	created, err := svc.Create(ctx, uuid.New(), CreateInput{
		Name:       "Clearable",
		Price:      100000,
		ExpiryDate: &expiry,
		SalePrice:  &manual,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{ClearSale: true})
	require.NoError(t, err)
	// Still near expiry, so the automatic discount reappears at read time.
	require.NotNil(t, updated.SalePrice)
	assert.Equal(t, int64(90000), *updated.SalePrice)
}
