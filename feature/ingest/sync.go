package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result reports the outcome of one batch commit.
type Result struct {
	Synced int      `json:"synced"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// Synchronizer commits classified operations to the catalog in one
// atomic batch.
type Synchronizer struct {
	store *inventory.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewSynchronizer creates a synchronizer writing through the given
// store.
func NewSynchronizer(store *inventory.Store, log *zap.Logger) *Synchronizer {
	return &Synchronizer{store: store, log: log, now: time.Now}
}

// Commit applies all operations atomically. Every persisted record
// carries the write timestamp, a batch identifier, and the source it
// was ingested from. When the underlying commit fails, no operation
// is applied and all rows count as failed under a single aggregate
// error.
func (s *Synchronizer) Commit(ctx context.Context, ops []Operation, source string) Result {
	if len(ops) == 0 {
		return Result{}
	}

	batchID := uuid.NewString()
	now := s.now()

	var creates []models.Product
	var updates []inventory.Update
	for _, op := range ops {
		switch op.Kind {
		case OpCreate:
			creates = append(creates, models.Product{
				ID:            op.TargetID,
				SKU:           op.SKU,
				AlternateSKUs: strings.Join(op.Alternates, ","),
				Name:          op.Product.Name,
				Description:   op.Product.Description,
				Category:      op.Product.Category,
				Price:         op.Product.Price,
				Stock:         op.Product.Stock,
				Supplier:      op.Product.Supplier,
				Active:        true,
				SyncedFrom:    source,
				BatchID:       batchID,
				LastUpdated:   now,
				CreatedAt:     now,
			})
		case OpUpdate:
			updates = append(updates, inventory.Update{
				ID: op.TargetID,
				Fields: map[string]any{
					"sku":            op.SKU,
					"alternate_skus": strings.Join(op.Alternates, ","),
					"name":           op.Product.Name,
					"description":    op.Product.Description,
					"category":       op.Product.Category,
					"price":          op.Product.Price,
					"stock":          op.Product.Stock,
					"supplier":       op.Product.Supplier,
					"active":         true,
					"synced_from":    source,
					"batch_id":       batchID,
					"last_updated":   now,
				},
			})
		}
	}

	if err := s.store.BatchWrite(ctx, creates, updates); err != nil {
		s.log.Error("batch commit failed",
			zap.String("batch_id", batchID),
			zap.String("source", source),
			zap.Int("operations", len(ops)),
			zap.Error(err))
		return Result{
			Failed: len(ops),
			Errors: []string{fmt.Sprintf("batch commit failed: %v", err)},
		}
	}

	s.log.Info("batch committed",
		zap.String("batch_id", batchID),
		zap.String("source", source),
		zap.Int("created", len(creates)),
		zap.Int("updated", len(updates)))
	return Result{Synced: len(ops)}
}
