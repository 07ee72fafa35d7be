package ingest

import (
	"testing"

	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"github.com/stretchr/testify/assert"
)

func TestFindDuplicatesWithinBatch(t *testing.T) {
	snap := inventory.NewSnapshot(nil)
	products := []Product{
		{Name: "Bolt", SKU: "B1", Row: 2},
		{Name: "Bolt again", SKU: "B1", Row: 3},
		{Name: "Nameless", SKU: "", Row: 4},
		{Name: "Also nameless", SKU: "", Row: 5},
	}

	findings := FindDuplicates(products, snap)
	assert.Len(t, findings, 1)
	assert.Contains(t, findings[0].Reason, "appears earlier in this file")
	assert.Equal(t, "row 2", findings[0].Matched)
}

func TestFindDuplicatesExactSnapshotMatch(t *testing.T) {
	snap := inventory.NewSnapshot([]models.Product{
		{ID: "p1", SKU: "S9", Name: "Seal"},
	})
	products := []Product{{Name: "Seal kit", SKU: "S9", Row: 2}}

	findings := FindDuplicates(products, snap)
	assert.Len(t, findings, 1)
	assert.Equal(t, float64(100), findings[0].Similarity)
	assert.Contains(t, findings[0].Reason, "exact SKU match")
	assert.Contains(t, findings[0].Matched, "Seal")
}

func TestFindDuplicatesMatchesAlternateSKUs(t *testing.T) {
	snap := inventory.NewSnapshot([]models.Product{
		{ID: "p1", SKU: "S9", AlternateSKUs: "ALT-1", Name: "Seal"},
	})
	products := []Product{{Name: "Seal kit", SKU: "ALT-1", Row: 2}}

	findings := FindDuplicates(products, snap)
	assert.Len(t, findings, 1)
	assert.Equal(t, float64(100), findings[0].Similarity)
}

func TestFindDuplicatesNoneForDistinctSKUs(t *testing.T) {
	snap := inventory.NewSnapshot(nil)
	products := []Product{
		{Name: "Bolt", SKU: "B1", Row: 2},
		{Name: "Nut", SKU: "N1", Row: 3},
	}

	assert.Empty(t, FindDuplicates(products, snap))
}

func TestStringSimilarity(t *testing.T) {
	assert.Equal(t, float64(1), stringSimilarity("Widget", "widget"))
	assert.Equal(t, float64(1), stringSimilarity("", ""))
	assert.Equal(t, float64(0), stringSimilarity("abc", "xyz"))

	// One substitution in four characters.
	assert.InDelta(t, 0.75, stringSimilarity("bolt", "boat"), 1e-9)
}

func TestProductSimilarityWeighting(t *testing.T) {
	// Identical names, unrelated descriptions: the name carries 70%.
	s := ProductSimilarity("Widget", "abc", "Widget", "xyz")
	assert.InDelta(t, 0.7, s, 1e-9)

	// Unrelated names, identical descriptions: 30%.
	s = ProductSimilarity("abc", "Spare part", "xyz", "Spare part")
	assert.InDelta(t, 0.3, s, 1e-9)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("same", "same"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
	assert.Equal(t, 4, editDistance("", "four"))
}
