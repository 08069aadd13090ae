// Package parser turns uploaded CSV or XLSX files into import rows.
package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"classlib-backend/internal/domains/importer/model"
)

// Format of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the format from the file extension, falling back to the
// content for files without a known extension.
func DetectFormat(fileName string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case "":
		if bytes.HasPrefix(data, zipMagic) {
			return FormatXLSX, nil
		}
		return FormatCSV, nil
	}
	return "", model.ErrUnsupportedFormat
}

// Table is a parsed file: a header and its data records.
// Records never include blank lines.
type Table struct {
	columns map[string]int
	Records [][]string
}

// ReadTable reads the whole file. maxRows bounds the number of data records;
// zero means unbounded.
func ReadTable(fileName string, data []byte, maxRows int) (*Table, error) {
	format, err := DetectFormat(fileName, data)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	records = dropBlank(records)
	if len(records) == 0 {
		return nil, model.ErrEmptyFile
	}

	t := &Table{columns: buildColumnIndexMap(records[0]), Records: records[1:]}
	if maxRows > 0 && len(t.Records) > maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", model.ErrTooManyRows, len(t.Records), maxRows)
	}
	return t, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CSV: %w", model.ErrUnsupportedFormat, err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid XLSX: %w", model.ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid XLSX: %w", model.ErrUnsupportedFormat, err)
	}
	return rows, nil
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// buildColumnIndexMap tạo map từ column name → index
func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, colName := range header {
		name := strings.ToLower(strings.TrimSpace(colName))
		if _, dup := colMap[name]; !dup {
			colMap[name] = i
		}
	}
	return colMap
}

// HasColumn reports whether any of the aliases is a header.
func (t *Table) HasColumn(aliases ...string) bool {
	for _, a := range aliases {
		if _, ok := t.columns[a]; ok {
			return true
		}
	}
	return false
}

// Cell returns the trimmed value of the first alias present in the header,
// or "" when none is.
func (t *Table) Cell(record []string, aliases ...string) string {
	for _, a := range aliases {
		if idx, ok := t.columns[a]; ok {
			if idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
	}
	return ""
}

// OptionalCell is Cell with blank mapped to nil.
func (t *Table) OptionalCell(record []string, aliases ...string) *string {
	if v := t.Cell(record, aliases...); v != "" {
		return &v
	}
	return nil
}
