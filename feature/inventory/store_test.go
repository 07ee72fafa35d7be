package inventory

import (
	"context"
	"testing"

	"inventory-sync/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestLoadSnapshotIndexesActiveProducts(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	rows := sqlmock.NewRows([]string{"id", "sku", "alternate_skus", "name", "active"}).
		AddRow("p1", "WID-001", "", "Widget", true).
		AddRow("p2", "GAD-002", "ALT-9", "Gadget", true)

	mock.ExpectQuery("SELECT \\* FROM `products`").WillReturnRows(rows)

	snap, err := store.LoadSnapshot(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	id, ok := snap.LookupSKU("ALT-9")
	assert.True(t, ok)
	assert.Equal(t, "p2", id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshotPropagatesQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `products`").WillReturnError(gorm.ErrInvalidDB)

	_, err := store.LoadSnapshot(context.Background())
	assert.Error(t, err)
}

func TestBatchWriteCommitsCreatesAndUpdates(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `products`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `products`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.BatchWrite(context.Background(),
		[]models.Product{{ID: "p1", SKU: "WID-001", Name: "Widget", Active: true}},
		[]Update{{ID: "p2", Fields: map[string]any{"stock": 5}}},
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchWriteRollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `products`").WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	err := store.BatchWrite(context.Background(),
		[]models.Product{{ID: "p1", SKU: "WID-001", Name: "Widget"}},
		nil,
	)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchWriteNoopWhenEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	err := store.BatchWrite(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
