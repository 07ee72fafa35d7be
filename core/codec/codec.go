package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is a single spreadsheet row keyed by column name.
// Number is the 1-based sheet row number (the header row is 1), kept so
// validation errors can point at the exact line in the source file.
type Row struct {
	Number int
	Cells  map[string]string
}

// Sheet is the parsed content of the first worksheet of a spreadsheet file.
type Sheet struct {
	Columns []string
	Rows    []Row
}

// Codec reads and writes spreadsheet files as ordered row mappings.
type Codec interface {
	Read(path string) (*Sheet, error)
	Write(path string, sheet *Sheet) error
}

// recognizedExtensions are the spreadsheet formats handled by the excel codec.
var recognizedExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
}

// IsSpreadsheet reports whether the file has a recognized spreadsheet extension.
func IsSpreadsheet(path string) bool {
	_, ok := recognizedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsHiddenOrTemp reports whether the file is a hidden, temporary, or lock
// artifact that must never trigger processing. Excel keeps "~$" owner files
// next to an open workbook.
func IsHiddenOrTemp(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".tmp" || ext == ".lock"
}

type excelCodec struct{}

// NewExcel returns a Codec backed by excelize.
func NewExcel() Codec {
	return &excelCodec{}
}

// Read parses the first worksheet of the file at path. An empty workbook
// yields an empty Sheet rather than an error; rows whose cells are all blank
// are dropped while preserving the sheet row numbering of the rest.
func (e *excelCodec) Read(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Sheet{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			break // trailing unnamed columns carry no data we can map
		}
		columns = append(columns, name)
	}

	sheet := &Sheet{Columns: columns}
	for i := 1; i < len(rows); i++ {
		raw := rows[i]
		if isBlank(raw) {
			continue
		}
		cells := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(raw) {
				cells[col] = raw[j]
			} else {
				cells[col] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, Row{Number: i + 1, Cells: cells})
	}

	return sheet, nil
}

// Write replaces the file at path with a single worksheet holding the given
// columns and rows, in order.
func (e *excelCodec) Write(path string, sheet *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	header := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(sheet.Columns))
		for j, col := range sheet.Columns {
			values[j] = row.Cells[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
