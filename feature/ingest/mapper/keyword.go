package mapper

import "strings"

// exactKeywords holds the header spellings recognized verbatim per
// field. Matching is case-sensitive; the first field claiming a column
// wins.
var exactKeywords = map[Field][]string{
	FieldName: {
		"Product Name", "product name", "Name", "name", "Product", "product",
		"Item Name", "item name", "Title", "title",
	},
	FieldDescription: {
		"Description", "description", "Product Description", "product description",
		"Details", "details",
	},
	FieldPrice: {
		"Price", "price", "Unit Price", "unit price", "Cost", "cost",
	},
	FieldQuantity: {
		"Quantity", "quantity", "Qty", "qty", "Stock", "stock",
		"Count", "count", "Units", "units",
	},
	FieldSKU: {
		"SKU", "sku", "Sku", "Product Code", "product code", "Item Code", "item code",
		"Code", "code",
	},
	FieldAlternateSKUs: {
		"Alternate SKUs", "alternate skus", "Alt SKUs", "alt skus",
		"Alternate SKU", "alternate sku", "Aliases", "aliases",
	},
	FieldSupplier: {
		"Supplier", "supplier", "Vendor", "vendor", "Manufacturer", "manufacturer",
	},
	FieldCategory: {
		"Category", "category", "Type", "type", "Group", "group",
	},
}

// looseKeywords is the fallback vocabulary matched case-insensitively
// as substrings when neither the exact pass nor the oracle produced a
// mapping.
var looseKeywords = map[Field][]string{
	FieldName:          {"name", "product", "title", "item"},
	FieldDescription:   {"desc", "detail"},
	FieldPrice:         {"price", "cost"},
	FieldQuantity:      {"qty", "quantity", "stock", "count", "unit"},
	FieldSKU:           {"sku", "code"},
	FieldAlternateSKUs: {"alternate", "alias"},
	FieldSupplier:      {"supplier", "vendor", "manufacturer"},
	FieldCategory:      {"category", "type", "group"},
}

// mapExact maps columns by exact keyword membership.
func mapExact(columns []string) Mapping {
	m := Mapping{}
	for _, col := range columns {
		if f, ok := exactMatch(col); ok {
			m[col] = f
		}
	}
	return m
}

func exactMatch(col string) (Field, bool) {
	for _, f := range Fields {
		for _, kw := range exactKeywords[f] {
			if col == kw {
				return f, true
			}
		}
	}
	return "", false
}

// looseOrder tests the more specific vocabularies first so that e.g.
// "Alternate SKUs" is not claimed by the sku field and "Product
// Description" is not claimed by the name field.
var looseOrder = []Field{
	FieldAlternateSKUs, FieldSKU, FieldDescription, FieldPrice,
	FieldQuantity, FieldSupplier, FieldCategory, FieldName,
}

// mapLoose maps columns by case-insensitive substring matching.
func mapLoose(columns []string) Mapping {
	m := Mapping{}
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, f := range looseOrder {
			matched := false
			for _, kw := range looseKeywords[f] {
				if strings.Contains(lower, kw) {
					m[col] = f
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return m
}
