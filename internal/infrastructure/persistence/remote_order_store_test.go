package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/persistence/models"
)

func newTestStore(t *testing.T) *GormRemoteOrderStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OrderSetModel{}))
	return NewGormRemoteOrderStore(db)
}

func TestGormRemoteOrderStore_LoadSave(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row loads as empty set", func(t *testing.T) {
		store := newTestStore(t)
		orders, err := store.Load(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("round trip", func(t *testing.T) {
		store := newTestStore(t)
		orders := []fulfillment.RemoteOrder{
			{Number: "20", Status: "Shipped", Items: []fulfillment.RemoteOrderItem{{SKU: "A-1", Quantity: 2}}},
			{Number: "9", Status: "Processed", Parcels: []fulfillment.RemoteParcel{{ID: 7, Carrier: "UPS", TrackingNumber: "1Z"}}},
		}

		require.NoError(t, store.Save(ctx, 1, orders))

		loaded, err := store.Load(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.SortOrders(orders), loaded)
	})

	t.Run("save replaces previous set", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "9", Status: "Processed"}}))
		require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "9", Status: "Shipped"}}))

		loaded, err := store.Load(ctx, 1)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "Shipped", loaded[0].Status)
	})

	t.Run("sets are isolated per local order", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "9"}}))
		require.NoError(t, store.Save(ctx, 2, []fulfillment.RemoteOrder{{Number: "10"}}))

		loaded, err := store.Load(ctx, 2)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "10", loaded[0].Number)
	})
}

func TestGormRemoteOrderStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "9"}}))

	require.NoError(t, store.Delete(ctx, 1))

	orders, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Deleting a missing row is a no-op.
	require.NoError(t, store.Delete(ctx, 1))
}

// newMockStore wires the store to a mocked SQL connection so the test can
// assert which statements run.
func newMockStore(t *testing.T) (*GormRemoteOrderStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormRemoteOrderStore(gormDB), mock, mockDB
}

func TestGormRemoteOrderStore_SaveSkipsUnchangedWrites(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	orders := []fulfillment.RemoteOrder{{Number: "9", Status: "Shipped"}}
	document, err := fulfillment.EncodeOrderSet(orders)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"order_id", "document"}).
		AddRow(int64(1), string(document))
	mock.ExpectQuery(`SELECT \* FROM "wms_order_sets" WHERE order_id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(int64(1), 1).
		WillReturnRows(rows)

	// No INSERT or UPDATE is expected: the document is byte-identical.
	require.NoError(t, store.Save(context.Background(), 1, orders))
	assert.NoError(t, mock.ExpectationsWereMet())
}
