package ingest

import (
	"fmt"
	"strings"
	"time"

	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"github.com/google/uuid"
)

// OpKind distinguishes record creation from record update.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
)

// Operation is one classified write: a product resolved to its
// definitive SKU and record ID.
type Operation struct {
	Kind       OpKind
	TargetID   string
	SKU        string
	Alternates []string
	Product    Product
}

// Classification is the outcome of reconciling a batch against the
// snapshot.
type Classification struct {
	Operations []Operation
	Failed     []RowError
}

// Classify resolves every product to a definitive SKU and decides
// whether it creates a new record or updates an existing one.
// Resolution order: explicit SKU, then SKU reuse by product name, then
// a generated key. A SKU already claimed earlier in the same batch
// fails the row; the synchronizer must never write one key twice in a
// single commit. Creates register their keys into the snapshot
// immediately so later rows in the batch resolve against them.
// Classify never fails as a whole.
func Classify(products []Product, snap *inventory.Snapshot, now func() time.Time) Classification {
	if now == nil {
		now = time.Now
	}

	var out Classification
	assigned := make(map[string]bool)

	for i, p := range products {
		finalSKU := strings.TrimSpace(p.SKU)
		if finalSKU == "" {
			if reused, ok := snap.LookupName(p.Name); ok {
				finalSKU = reused
			} else {
				finalSKU = generateSKU(p.Name, now().UnixMilli(), i)
			}
		}

		if assigned[finalSKU] {
			out.Failed = append(out.Failed, RowError{
				Row:    p.Row,
				Reason: fmt.Sprintf("Duplicate SKU %q within file", finalSKU),
			})
			continue
		}
		assigned[finalSKU] = true

		alternates := parseAlternates(p.AlternateSKUs, finalSKU)

		op := Operation{SKU: finalSKU, Alternates: alternates, Product: p}
		if id, ok := resolveTarget(snap, finalSKU, alternates); ok {
			op.Kind = OpUpdate
			op.TargetID = id
		} else {
			op.Kind = OpCreate
			op.TargetID = uuid.NewString()
			snap.Register(&models.Product{
				ID:            op.TargetID,
				SKU:           finalSKU,
				AlternateSKUs: strings.Join(alternates, ","),
				Name:          p.Name,
			})
		}
		out.Operations = append(out.Operations, op)
	}

	return out
}

func resolveTarget(snap *inventory.Snapshot, sku string, alternates []string) (string, bool) {
	if id, ok := snap.LookupSKU(sku); ok {
		return id, true
	}
	for _, alt := range alternates {
		if id, ok := snap.LookupSKU(alt); ok {
			return id, true
		}
	}
	return "", false
}

// generateSKU synthesizes a key unique within and across runs without
// an external ID generator.
func generateSKU(name string, millis int64, batchIndex int) string {
	prefix := strings.ToUpper(name)
	if runes := []rune(prefix); len(runes) > 3 {
		prefix = string(runes[:3])
	}
	return fmt.Sprintf("AUTO-%s-%d-%d", prefix, millis, batchIndex)
}

// parseAlternates splits a comma-separated alternate-SKU string,
// dropping blanks and any entry equal to the final SKU. Malformed
// input degrades to no alternates.
func parseAlternates(raw, finalSKU string) []string {
	var alternates []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == finalSKU {
			continue
		}
		alternates = append(alternates, part)
	}
	return alternates
}
