package inventory

import (
	"strings"

	"inventory-sync/feature/inventory/models"
)

// Snapshot is an in-memory index of the active product catalog, taken
// once per ingestion pass. Reconciliation resolves SKUs and names
// against the snapshot, and registers newly created SKUs into it so
// later rows of the same batch see them.
type Snapshot struct {
	// skuIndex maps every SKU (primary and alternate) to a record ID.
	skuIndex map[string]string
	// nameIndex maps lowercased product names to their primary SKU.
	nameIndex map[string]string
	// records maps record IDs to the product they index.
	records map[string]*models.Product
}

// NewSnapshot builds a snapshot from the given products.
// When two products share a name, the first one wins the name index.
func NewSnapshot(products []models.Product) *Snapshot {
	s := &Snapshot{
		skuIndex:  make(map[string]string, len(products)),
		nameIndex: make(map[string]string, len(products)),
		records:   make(map[string]*models.Product, len(products)),
	}

	for i := range products {
		p := &products[i]
		s.records[p.ID] = p
		for _, sku := range p.AllSKUs() {
			if _, taken := s.skuIndex[sku]; !taken {
				s.skuIndex[sku] = p.ID
			}
		}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if key != "" {
			if _, taken := s.nameIndex[key]; !taken {
				s.nameIndex[key] = p.SKU
			}
		}
	}

	return s
}

// LookupSKU returns the record ID for a SKU, if present.
func (s *Snapshot) LookupSKU(sku string) (string, bool) {
	id, ok := s.skuIndex[sku]
	return id, ok
}

// LookupName returns the primary SKU of the product with the given
// name, matched case-insensitively.
func (s *Snapshot) LookupName(name string) (string, bool) {
	sku, ok := s.nameIndex[strings.ToLower(strings.TrimSpace(name))]
	return sku, ok
}

// Get returns the indexed product with the given record ID.
func (s *Snapshot) Get(id string) (*models.Product, bool) {
	p, ok := s.records[id]
	return p, ok
}

// Register adds a freshly created product to the snapshot so that
// subsequent rows in the same batch resolve against it.
func (s *Snapshot) Register(p *models.Product) {
	s.records[p.ID] = p
	for _, sku := range p.AllSKUs() {
		if _, taken := s.skuIndex[sku]; !taken {
			s.skuIndex[sku] = p.ID
		}
	}
	key := strings.ToLower(strings.TrimSpace(p.Name))
	if key != "" {
		if _, taken := s.nameIndex[key]; !taken {
			s.nameIndex[key] = p.SKU
		}
	}
}

// Len returns the number of indexed records.
func (s *Snapshot) Len() int {
	return len(s.records)
}
