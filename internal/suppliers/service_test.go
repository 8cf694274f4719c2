package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

func setupSuppliersTest(t *testing.T) (Service, Repository, *gorm.DB) {
	t.Helper()

	dsn := "file:suppliers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Supplier{}, &models.Batch{}))

	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, repo, conn
}

func TestCreateSupplier(t *testing.T) {
	svc, _, _ := setupSuppliersTest(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{Code: "SUP-001", Name: "Medico Supplies"})
	require.NoError(t, err)
	assert.Equal(t, enums.SupplierStatusActive, supplier.Status)
	assert.Equal(t, 5.0, supplier.Rating)
	assert.NotEqual(t, uuid.Nil, supplier.ID)
}

func TestCreateSupplierDuplicateCode(t *testing.T) {
	svc, _, _ := setupSuppliersTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "SUP-001", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Code: "SUP-001", Name: "Second"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateSupplierValidation(t *testing.T) {
	svc, _, _ := setupSuppliersTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "No Code"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badRating := 6.0
	_, err = svc.Create(ctx, CreateInput{Code: "SUP-002", Name: "Bad Rating", Rating: &badRating})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateSupplier(t *testing.T) {
	svc, _, _ := setupSuppliersTest(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{Code: "SUP-003", Name: "Original"})
	require.NoError(t, err)

	name := "Renamed"
	rating := 3.5
	status := enums.SupplierStatusSuspended
	updated, err := svc.Update(ctx, supplier.ID, UpdateInput{Name: &name, Rating: &rating, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 3.5, updated.Rating)
	assert.Equal(t, enums.SupplierStatusSuspended, updated.Status)
}

func TestDeleteSupplierBlockedByBatches(t *testing.T) {
	svc, _, conn := setupSuppliersTest(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{Code: "SUP-004", Name: "With Batches"})
	require.NoError(t, err)

	batch := models.Batch{
		ID:                uuid.New(),
		BatchCode:         "B-001",
		ProductID:         uuid.New(),
		SupplierID:        supplier.ID,
		Quantity:          10,
		RemainingQuantity: 10,
		UnitCost:          1000,
		MfgDate:           time.Now().AddDate(0, -1, 0),
		ExpiryDate:        time.Now().AddDate(1, 0, 0),
		Status:            enums.BatchStatusActive,
		CreatedBy:         uuid.New(),
	}
	require.NoError(t, conn.Create(&batch).Error)

	err = svc.Delete(ctx, supplier.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// Removing the batch unblocks the delete.
	require.NoError(t, conn.Delete(&batch).Error)
	require.NoError(t, svc.Delete(ctx, supplier.ID))

	_, err = svc.Get(ctx, supplier.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRecordBatchIncrementsCounters(t *testing.T) {
	svc, repo, _ := setupSuppliersTest(t)
	ctx := context.Background()

	supplier, err := svc.Create(ctx, CreateInput{Code: "SUP-005", Name: "Counted"})
	require.NoError(t, err)

	require.NoError(t, repo.RecordBatch(ctx, supplier.ID, 50000))
	require.NoError(t, repo.RecordBatch(ctx, supplier.ID, 25000))

	reloaded, err := svc.Get(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TotalOrders)
	assert.Equal(t, int64(75000), reloaded.TotalValue)
}

func TestListSuppliersFilters(t *testing.T) {
	svc, _, _ := setupSuppliersTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "SUP-A", Name: "Alpha Pharma"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Code: "SUP-B", Name: "Beta Cosmetics"})
	require.NoError(t, err)

	inactive := enums.SupplierStatusInactive
	_, err = svc.Update(ctx, second.ID, UpdateInput{Status: &inactive})
	require.NoError(t, err)

	rows, meta, err := svc.List(ctx, pagination.Params{}, Filters{Status: &inactive})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUP-B", rows[0].Code)
	assert.Equal(t, int64(1), meta.Total)

	rows, _, err = svc.List(ctx, pagination.Params{}, Filters{Search: "Alpha"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUP-A", rows[0].Code)
}
