package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load picks a reader from the file extension (.csv or .xlsx).
func Load(path string, opts ...Option) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, "", opts...)
	default:
		return LoadCSV(path, opts...)
	}
}

// LoadCSV reads a CSV file whose first row is the header.
func LoadCSV(path string, opts ...Option) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d, err := ReadCSV(bufio.NewReader(file), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ReadCSV parses CSV from r; the first record is the header.
func ReadCSV(r io.Reader, opts ...Option) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("data: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return New(header, records[1:], opts...)
}

// LoadXLSX reads one sheet of a workbook; an empty sheet name means the first.
func LoadXLSX(path, sheet string, opts ...Option) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}
	header := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		// GetRows drops trailing empty cells.
		for len(r) < len(header) {
			r = append(r, "")
		}
		body = append(body, r[:len(header)])
	}
	return New(header, body, opts...)
}
