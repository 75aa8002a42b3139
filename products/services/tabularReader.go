package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FileType declares how an uploaded file's bytes should be interpreted.
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// FileTypeFromName guesses the file type from an upload's filename,
// defaulting to spreadsheet.
func FileTypeFromName(name string) FileType {
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return FileTypeCSV
	}
	return FileTypeXLSX
}

// ReadTabularFile converts raw file bytes into an ordered sequence of
// loosely-typed rows keyed by the header row's column names. Only the first
// sheet of a spreadsheet is read. Rows that are entirely blank are skipped.
func ReadTabularFile(data []byte, fileType FileType) ([]RawRow, error) {
	switch fileType {
	case FileTypeCSV:
		return readCSV(data)
	case FileTypeXLSX, "":
		return readSpreadsheet(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

func readSpreadsheet(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %v", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %v", sheetName, err)
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw rows from sheet %q: %v", sheetName, err)
	}

	return rowsToRawRows(mergeSpreadsheetRows(formatted, raw)), nil
}

// mergeSpreadsheetRows pairs each cell's formatted rendering with its stored
// value. Excel keeps dates (and formatted numbers) as plain number values and
// renders them through the cell's number format, so whenever the two disagree
// the underlying number is what downstream parsing must see.
func mergeSpreadsheetRows(formatted, raw [][]string) [][]interface{} {
	out := make([][]interface{}, len(formatted))
	for i, row := range formatted {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			rawCell := cell
			if i < len(raw) && j < len(raw[i]) {
				rawCell = raw[i][j]
			}
			cells[j] = cellValue(cell, rawCell)
		}
		out[i] = cells
	}
	return out
}

// cellValue picks what the row converter sees for one spreadsheet cell. A
// date cell's raw value is its day serial, so emitting the number keeps the
// serial date branch reachable for genuinely date-typed cells.
func cellValue(formatted, raw string) interface{} {
	if raw == formatted {
		return formatted
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return formatted
}

func readCSV(data []byte) ([]RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, missing cells read as blank

	var rows [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %v", err)
		}
		cells := make([]interface{}, len(record))
		for i, cell := range record {
			cells[i] = cell
		}
		rows = append(rows, cells)
	}

	return rowsToRawRows(rows), nil
}

func rowsToRawRows(rows [][]interface{}) []RawRow {
	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(stringValue(h))
	}

	var out []RawRow
	for _, cells := range rows[1:] {
		raw := make(RawRow, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var cell interface{} = ""
			if i < len(cells) {
				cell = cells[i]
			}
			if !cellBlank(cell) {
				empty = false
			}
			raw[header] = cell
		}
		if empty {
			continue
		}
		out = append(out, raw)
	}

	return out
}

func cellBlank(cell interface{}) bool {
	switch v := cell.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
