package ingest

import (
	"fmt"
	"strings"

	"inventory-sync/feature/inventory"
)

// Finding is an advisory duplicate report. Findings never block
// synchronization.
type Finding struct {
	Source     string  `json:"source"`
	Matched    string  `json:"matched,omitempty"`
	Reason     string  `json:"reason"`
	Similarity float64 `json:"similarity,omitempty"`
}

// FindDuplicates reports SKU collisions within the batch and exact
// SKU matches against the catalog snapshot. Products without a SKU
// are exempt from the within-batch check; their key is assigned
// during reconciliation.
func FindDuplicates(products []Product, snap *inventory.Snapshot) []Finding {
	var findings []Finding

	seen := make(map[string]int)
	for _, p := range products {
		sku := strings.TrimSpace(p.SKU)
		if sku == "" {
			continue
		}

		if firstRow, dup := seen[sku]; dup {
			findings = append(findings, Finding{
				Source:  describe(p),
				Matched: fmt.Sprintf("row %d", firstRow),
				Reason:  fmt.Sprintf("SKU %q appears earlier in this file", sku),
			})
		} else {
			seen[sku] = p.Row
		}

		if id, ok := snap.LookupSKU(sku); ok {
			matched := fmt.Sprintf("record %s", id)
			if existing, found := snap.Get(id); found {
				matched = describe(Product{Name: existing.Name, SKU: existing.SKU})
			}
			findings = append(findings, Finding{
				Source:     describe(p),
				Matched:    matched,
				Reason:     fmt.Sprintf("exact SKU match on %q", sku),
				Similarity: 100,
			})
		}
	}

	return findings
}

func describe(p Product) string {
	if p.SKU == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.SKU)
}

// ProductSimilarity scores how alike two products are, weighting name
// at 70% and description at 30%. The score is advisory only; nothing
// in the pipeline merges or suppresses records based on it.
func ProductSimilarity(aName, aDesc, bName, bDesc string) float64 {
	return 0.7*stringSimilarity(aName, bName) + 0.3*stringSimilarity(aDesc, bDesc)
}

// stringSimilarity is a normalized edit distance in [0, 1].
func stringSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
