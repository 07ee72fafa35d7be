package ingest

import (
	"context"
	"testing"

	"inventory-sync/feature/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStore(t *testing.T) (*inventory.Store, sqlmock.Sqlmock) {
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

	return inventory.NewStore(gormDB), mock
}

func TestCommitEmptyBatch(t *testing.T) {
	store, mock := setupMockStore(t)
	s := NewSynchronizer(store, zap.NewNop())

	result := s.Commit(context.Background(), nil, "inventory.xlsx")
	assert.Equal(t, Result{}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitAppliesCreatesAndUpdates(t *testing.T) {
	store, mock := setupMockStore(t)
	s := NewSynchronizer(store, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `products`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `products`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ops := []Operation{
		{Kind: OpCreate, TargetID: "id-1", SKU: "B1", Product: Product{Name: "Bolt", Row: 2}},
		{Kind: OpUpdate, TargetID: "id-2", SKU: "N1", Product: Product{Name: "Nut", Row: 3}},
	}

	result := s.Commit(context.Background(), ops, "inventory.xlsx")
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFailureFailsWholeBatch(t *testing.T) {
	store, mock := setupMockStore(t)
	s := NewSynchronizer(store, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `products`").WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	ops := []Operation{
		{Kind: OpCreate, TargetID: "id-1", SKU: "B1", Product: Product{Name: "Bolt", Row: 2}},
		{Kind: OpCreate, TargetID: "id-2", SKU: "N1", Product: Product{Name: "Nut", Row: 3}},
	}

	result := s.Commit(context.Background(), ops, "inventory.xlsx")
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "batch commit failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
