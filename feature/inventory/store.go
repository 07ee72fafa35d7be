package inventory

import (
	"context"

	"inventory-sync/feature/inventory/models"

	"gorm.io/gorm"
)

// Store provides catalog access on top of gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a catalog store backed by the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Update describes a partial update of a single product record.
type Update struct {
	ID     string
	Fields map[string]any
}

// ActiveProducts returns every active product in the catalog.
func (s *Store) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LoadSnapshot reads the active catalog and indexes it for reconciliation.
func (s *Store) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	products, err := s.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(products), nil
}

// Count returns the number of active products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

// BatchWrite applies all creates and updates in a single transaction.
// Either every operation commits or none does.
func (s *Store) BatchWrite(ctx context.Context, creates []models.Product, updates []Update) error {
	if len(creates) == 0 && len(updates) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range creates {
			if err := tx.Create(&creates[i]).Error; err != nil {
				return err
			}
		}
		for _, u := range updates {
			if err := tx.Model(&models.Product{}).Where("id = ?", u.ID).Updates(u.Fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
