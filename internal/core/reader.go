package core

// reader.go turns an uploaded CSV or XLSX file into RawRows.
//
// The header is the first non-empty row. Fully empty rows are dropped, so
// row numbers in the import report count data rows, header = line 1.
// When a header repeats, the first column with that name wins.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one data row keyed by its header cell.
type RawRow map[string]string

// ReadRows picks a reader by file extension. limit caps the bytes read;
// zero means unlimited.
func ReadRows(fileName string, r io.Reader, limit int64) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return readCSV(r, limit)
	case ".xlsx":
		return readXLSX(r, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

func readCSV(r io.Reader, limit int64) ([]RawRow, error) {
	src, _ := WrapForImport(r, limit)

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return recordsToRows(records)
}

func readXLSX(r io.Reader, limit int64) ([]RawRow, error) {
	counted := NewCountingReader(r, limit)

	f, err := excelize.OpenReader(counted)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("invalid xlsx: workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: sheet %q: %w", sheet, err)
	}
	return recordsToRows(records)
}

func recordsToRows(records [][]string) ([]RawRow, error) {
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}

	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.New("no header row")
	}

	header := make([]string, len(records[headerIdx]))
	for i, h := range records[headerIdx] {
		header[i] = CleanCell(h)
	}

	rows := make([]RawRow, 0, len(records)-headerIdx-1)
	for _, rec := range records[headerIdx+1:] {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(RawRow, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if _, seen := row[h]; seen {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
