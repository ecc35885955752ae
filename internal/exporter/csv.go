// Package exporter persists ratio rows as per-company CSV files.
//
// Two components:
//
// CSVWriter: low-level CSV writing with UTF-8 BOM for Excel
// compatibility (output carries Korean company and ratio names).
//
// RatioStore: the per-(stock_code, year) ratio file store with
// read-back, quarter deduplication and merge-on-write.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality.
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteCSV writes headers and records to filePath, creating parent
// directories as needed. The file is truncated and prefixed with a BOM.
func (w *CSVWriter) WriteCSV(filePath string, headers []string, records [][]string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file %s: %w", filePath, err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	slog.Debug("wrote CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(records)))

	return writer.Error()
}

// ReadCSV reads a CSV file into header and records, tolerating a UTF-8
// BOM and variable-length rows. A missing file returns os.ErrNotExist.
func ReadCSV(filePath string) (headers []string, records [][]string, err error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	if len(data) >= len(utf8BOM) && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		data = data[len(utf8BOM):]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV %s: %w", filePath, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}
