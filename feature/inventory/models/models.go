package models

import (
	"strings"
	"time"
)

// Product is a single inventory record as stored in the database.
// SKU is unique among active products; AlternateSKUs holds additional
// identifiers that also resolve to this product during reconciliation.
type Product struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	SKU           string    `gorm:"column:sku;size:128;index" json:"sku"`
	AlternateSKUs string    `gorm:"column:alternate_skus;size:1024" json:"alternate_skus,omitempty"`
	Name          string    `gorm:"column:name;size:512" json:"name"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Category      string    `gorm:"column:category;size:256" json:"category"`
	Price         float64   `gorm:"column:price" json:"price"`
	Stock         int       `gorm:"column:stock" json:"stock"`
	Supplier      string    `gorm:"column:supplier;size:256" json:"supplier,omitempty"`
	Active        bool      `gorm:"column:active" json:"active"`
	SyncedFrom    string    `gorm:"column:synced_from;size:512" json:"synced_from,omitempty"`
	BatchID       string    `gorm:"column:batch_id;size:36" json:"batch_id,omitempty"`
	LastUpdated   time.Time `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the gorm table name.
func (Product) TableName() string {
	return "products"
}

// AllSKUs returns the primary SKU followed by any alternate SKUs.
// Alternates are stored comma-separated; empty entries are skipped.
func (p *Product) AllSKUs() []string {
	skus := []string{p.SKU}
	for _, alt := range strings.Split(p.AlternateSKUs, ",") {
		alt = strings.TrimSpace(alt)
		if alt != "" {
			skus = append(skus, alt)
		}
	}
	return skus
}
