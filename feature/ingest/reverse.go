package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory-sync/core/codec"
	"inventory-sync/feature/ingest/mapper"
	"inventory-sync/feature/inventory/models"

	"go.uber.org/zap"
)

// ReverseAction says what happened to a catalog record outside the
// watcher.
type ReverseAction string

const (
	ReverseUpdate ReverseAction = "update"
	ReverseDelete ReverseAction = "delete"
)

// OnRecordChanged pushes a catalog edit back into the source
// spreadsheet. Rows are matched by product name, case-insensitively.
// An update with no matching row appends one; a delete with no
// matching row logs a warning and does nothing. The rewritten file's
// modification time is marked processed so the watcher does not
// re-ingest the engine's own write.
func (e *Engine) OnRecordChanged(ctx context.Context, path string, action ReverseAction, name string, record *models.Product) error {
	base := strings.TrimSpace(name)
	if base == "" {
		return fmt.Errorf("reverse sync needs a product name")
	}

	sheet, err := e.codec.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	mapping := e.resolver.Resolve(ctx, sheet.Columns)
	nameCol, ok := mapping.ColumnFor(sheet.Columns, mapper.FieldName)
	if !ok {
		return fmt.Errorf("no product name column in %s", path)
	}

	idx := -1
	for i, row := range sheet.Rows {
		if strings.EqualFold(strings.TrimSpace(row.Cells[nameCol]), base) {
			idx = i
			break
		}
	}

	switch action {
	case ReverseUpdate:
		if record == nil {
			return fmt.Errorf("reverse sync update needs a product record")
		}
		cells := recordCells(sheet.Columns, mapping, record)
		if idx >= 0 {
			for col, val := range cells {
				sheet.Rows[idx].Cells[col] = val
			}
			e.log.Info("reverse sync updated row", zap.String("name", base), zap.Int("row", sheet.Rows[idx].Number))
		} else {
			number := 2
			if n := len(sheet.Rows); n > 0 {
				number = sheet.Rows[n-1].Number + 1
			}
			sheet.Rows = append(sheet.Rows, codec.Row{Number: number, Cells: cells})
			e.log.Info("reverse sync appended row", zap.String("name", base))
		}
	case ReverseDelete:
		if idx < 0 {
			e.log.Warn("reverse sync delete: product not found in file",
				zap.String("name", base), zap.String("file", path))
			return nil
		}
		sheet.Rows = append(sheet.Rows[:idx], sheet.Rows[idx+1:]...)
		e.log.Info("reverse sync removed row", zap.String("name", base))
	default:
		return fmt.Errorf("unknown reverse sync action %q", action)
	}

	if err := e.codec.Write(path, sheet); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	e.tracker.MarkProcessed(path)
	return nil
}

// recordCells renders a catalog record into the columns the sheet
// actually has. Unmapped fields are dropped.
func recordCells(columns []string, m mapper.Mapping, record *models.Product) map[string]string {
	cells := make(map[string]string)
	set := func(f mapper.Field, val string) {
		if col, ok := m.ColumnFor(columns, f); ok {
			cells[col] = val
		}
	}
	set(mapper.FieldName, record.Name)
	set(mapper.FieldDescription, record.Description)
	set(mapper.FieldCategory, record.Category)
	set(mapper.FieldPrice, strconv.FormatFloat(record.Price, 'f', -1, 64))
	set(mapper.FieldQuantity, strconv.Itoa(record.Stock))
	set(mapper.FieldSKU, record.SKU)
	set(mapper.FieldAlternateSKUs, record.AlternateSKUs)
	set(mapper.FieldSupplier, record.Supplier)
	return cells
}
