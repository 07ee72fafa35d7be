package ingest

import (
	"fmt"

	"inventory-sync/core/codec"
	"inventory-sync/core/utils"
	"inventory-sync/feature/ingest/mapper"
)

// defaultDescription fills records whose source row had no description.
const defaultDescription = "No description available"

// defaultCategory fills records whose source row had no category.
const defaultCategory = "Uncategorized"

// Product is a canonical record produced from one validated row.
type Product struct {
	Name          string
	Description   string
	Category      string
	Price         float64
	Stock         int
	SKU           string
	AlternateSKUs string
	Supplier      string
	// Row is the 1-based sheet row the product came from.
	Row int
}

// RowError is a per-row rejection with row-number attribution.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ValidateRow converts a raw row into a canonical product. The only
// hard rule is a non-empty name; every other field is coerced with a
// safe default. The function is pure.
func ValidateRow(row codec.Row, columns []string, m mapper.Mapping) (Product, *RowError) {
	cell := func(f mapper.Field) string {
		col, ok := m.ColumnFor(columns, f)
		if !ok {
			return ""
		}
		return row.Cells[col]
	}

	name := utils.ToString(cell(mapper.FieldName))
	if name == "" {
		return Product{}, &RowError{Row: row.Number, Reason: "Missing product name"}
	}

	p := Product{
		Name:          name,
		Description:   utils.ToString(cell(mapper.FieldDescription)),
		Category:      utils.ToString(cell(mapper.FieldCategory)),
		Price:         utils.ToFloat(cell(mapper.FieldPrice)),
		Stock:         utils.ToInt(cell(mapper.FieldQuantity)),
		SKU:           utils.ToString(cell(mapper.FieldSKU)),
		AlternateSKUs: utils.ToString(cell(mapper.FieldAlternateSKUs)),
		Supplier:      utils.ToString(cell(mapper.FieldSupplier)),
		Row:           row.Number,
	}
	if p.Description == "" {
		p.Description = defaultDescription
	}
	if p.Category == "" {
		p.Category = defaultCategory
	}
	return p, nil
}

// ValidateRows validates every row of a sheet, splitting products from
// rejections.
func ValidateRows(sheet *codec.Sheet, m mapper.Mapping) ([]Product, []RowError) {
	var products []Product
	var rejected []RowError
	for _, row := range sheet.Rows {
		p, rerr := ValidateRow(row, sheet.Columns, m)
		if rerr != nil {
			rejected = append(rejected, *rerr)
			continue
		}
		products = append(products, p)
	}
	return products, rejected
}
