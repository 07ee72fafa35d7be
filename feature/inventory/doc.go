// Package inventory owns the product catalog: the gorm-backed Store,
// and the Snapshot index that reconciliation resolves SKUs and names
// against during an ingestion pass.
package inventory
