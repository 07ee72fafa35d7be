package codec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")
	c := NewExcel()

	sheet := &Sheet{
		Columns: []string{"Name", "Price", "SKU"},
		Rows: []Row{
			{Cells: map[string]string{"Name": "Bolt", "Price": "1.50", "SKU": "B1"}},
			{Cells: map[string]string{"Name": "Nut", "Price": "0.75", "SKU": "N1"}},
		},
	}

	require.NoError(t, c.Write(path, sheet))

	got, err := c.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Price", "SKU"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Bolt", got.Rows[0].Cells["Name"])
	assert.Equal(t, "N1", got.Rows[1].Cells["SKU"])
	// Header is sheet row 1, data starts at 2
	assert.Equal(t, 2, got.Rows[0].Number)
	assert.Equal(t, 3, got.Rows[1].Number)
}

func TestReadSkipsBlankRowsButKeepsNumbering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.xlsx")

	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &[]interface{}{"Name", "Stock"}))
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &[]interface{}{"Bolt", "10"}))
	// Row 3 left blank on purpose
	require.NoError(t, f.SetSheetRow(sheetName, "A4", &[]interface{}{"Nut", "5"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := NewExcel().Read(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, 2, got.Rows[0].Number)
	assert.Equal(t, 4, got.Rows[1].Number)
}

func TestReadEmptyWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := NewExcel().Read(path)
	require.NoError(t, err)
	assert.Empty(t, got.Columns)
	assert.Empty(t, got.Rows)
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewExcel().Read(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("inventory.xlsx"))
	assert.True(t, IsSpreadsheet("INVENTORY.XLSM"))
	assert.False(t, IsSpreadsheet("inventory.csv"))
	assert.False(t, IsSpreadsheet("inventory"))
}

func TestIsHiddenOrTemp(t *testing.T) {
	assert.True(t, IsHiddenOrTemp("/data/.inventory.xlsx"))
	assert.True(t, IsHiddenOrTemp("/data/~$inventory.xlsx"))
	assert.True(t, IsHiddenOrTemp("/data/upload.tmp"))
	assert.True(t, IsHiddenOrTemp("/data/inventory.lock"))
	assert.False(t, IsHiddenOrTemp("/data/inventory.xlsx"))
}
