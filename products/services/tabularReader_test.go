package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSpreadsheet(t *testing.T, cells map[string]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, value))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadTabularFileSpreadsheetDateCell(t *testing.T) {
	// A real Excel date cell is stored as a day serial behind a date number
	// format; the reader must surface the serial, not the rendered string.
	data := buildSpreadsheet(t, map[string]interface{}{
		"A1": "name",
		"B1": "expiry date",
		"A2": "Rice",
		"B2": time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
	})

	rows, err := ReadTabularFile(data, FileTypeXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	serial, ok := rows[0]["expiry date"].(float64)
	require.Truef(t, ok, "date cell should surface as a numeric serial, got %T", rows[0]["expiry date"])
	assert.Equal(t, "2026-12-31", NormalizeExpiryDate(serial))
	assert.Equal(t, "Rice", rows[0]["name"])
}

func TestReadTabularFileSpreadsheetPlainCells(t *testing.T) {
	data := buildSpreadsheet(t, map[string]interface{}{
		"A1": "name",
		"B1": "expiry date",
		"C1": "quantity",
		"A2": "Milk",
		"B2": "2026-06-01",
		"C2": 24,
	})

	rows, err := ReadTabularFile(data, FileTypeXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Text cells and unformatted numbers pass through unchanged.
	assert.Equal(t, "2026-06-01", rows[0]["expiry date"])
	assert.Equal(t, "Milk", rows[0]["name"])
	assert.Equal(t, "24", rows[0]["quantity"])
}

func TestReadTabularFileCSV(t *testing.T) {
	data := []byte("name,quantity,price\nRice,10,450\n,,\nMilk,24,15\n")

	rows, err := ReadTabularFile(data, FileTypeCSV)
	require.NoError(t, err)

	// The blank line in the middle is dropped.
	require.Len(t, rows, 2)
	assert.Equal(t, "Rice", rows[0]["name"])
	assert.Equal(t, "10", rows[0]["quantity"])
	assert.Equal(t, "Milk", rows[1]["name"])
}

func TestReadTabularFileRaggedCSV(t *testing.T) {
	data := []byte("name,quantity,price\nRice,10\n")

	rows, err := ReadTabularFile(data, FileTypeCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["price"], "missing trailing cells read as blank")
}

func TestReadTabularFileHeaderOnly(t *testing.T) {
	rows, err := ReadTabularFile([]byte("name,quantity\n"), FileTypeCSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadTabularFileUnsupportedType(t *testing.T) {
	_, err := ReadTabularFile([]byte("x"), FileType("pdf"))
	assert.Error(t, err)
}

func TestReadTabularFileBadSpreadsheet(t *testing.T) {
	_, err := ReadTabularFile([]byte("definitely not a zip archive"), FileTypeXLSX)
	assert.Error(t, err)
}

func TestFileTypeFromName(t *testing.T) {
	assert.Equal(t, FileTypeCSV, FileTypeFromName("products.CSV"))
	assert.Equal(t, FileTypeXLSX, FileTypeFromName("products.xlsx"))
	assert.Equal(t, FileTypeXLSX, FileTypeFromName("products"))
}
