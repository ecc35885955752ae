package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dartcli/internal/ratios"
	"dartcli/pkg/contracts/domain"
)

// fixedColumns precede the ratio columns in every output file.
var fixedColumns = []string{"stock_code", "corp_name", "year", "quarter", "label"}

// RatioStore persists RatioRows as one CSV file per (stock_code, year),
// named {stock_code}_{year}.csv. The store enforces at most one row per
// (stock_code, year, quarter): writes merge with existing rows, new
// rows win on key collision, and the merged file is sorted by the fixed
// quarter order.
//
// The merge is a read-modify-write of a shared file and assumes a
// single writer per (stock_code, year); callers must not run two
// collections over the same company-year concurrently.
type RatioStore struct {
	outputDir string
	writer    *CSVWriter
}

// NewRatioStore creates a store rooted at outputDir.
func NewRatioStore(outputDir string) *RatioStore {
	return &RatioStore{outputDir: outputDir, writer: NewCSVWriter()}
}

// FilePath returns the output file path for one (stock_code, year).
func (s *RatioStore) FilePath(stockCode, year string) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.csv", stockCode, year))
}

// Headers returns the full column order: fixed columns followed by the
// 30 ratio names in registry order.
func Headers() []string {
	return append(append([]string{}, fixedColumns...), ratios.Names()...)
}

// Load reads previously persisted rows for a (stock_code, year) pair.
// A missing file is not an error and yields no rows.
func (s *RatioStore) Load(stockCode, year string) ([]domain.RatioRow, error) {
	path := s.FilePath(stockCode, year)
	headers, records, err := ReadCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	columnIndex := make(map[string]int, len(headers))
	for i, header := range headers {
		columnIndex[strings.TrimSpace(header)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columnIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := make([]domain.RatioRow, 0, len(records))
	for _, record := range records {
		row := domain.RatioRow{
			StockCode: field(record, "stock_code"),
			CorpName:  field(record, "corp_name"),
			Year:      field(record, "year"),
			Quarter:   domain.ReportPeriod(field(record, "quarter")),
			Label:     field(record, "label"),
			Ratios:    make(map[string]*float64, len(ratios.Names())),
		}
		for _, name := range ratios.Names() {
			row.Ratios[name] = parseRatioValue(field(record, name))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CollectedQuarters returns the set of quarters already persisted for a
// (stock_code, year) pair, used to skip re-fetching.
func (s *RatioStore) CollectedQuarters(stockCode, year string) (map[domain.ReportPeriod]bool, error) {
	rows, err := s.Load(stockCode, year)
	if err != nil {
		return nil, err
	}
	collected := make(map[domain.ReportPeriod]bool, len(rows))
	for _, row := range rows {
		collected[row.Quarter] = true
	}
	return collected, nil
}

// Write merges newRows with any previously persisted rows for the same
// (stock_code, year), newest winning per quarter, and rewrites the file
// sorted by fiscal quarter order.
func (s *RatioStore) Write(stockCode, year string, newRows []domain.RatioRow) error {
	existing, err := s.Load(stockCode, year)
	if err != nil {
		return fmt.Errorf("load existing rows for %s_%s: %w", stockCode, year, err)
	}

	merged := MergeRows(existing, newRows)

	records := make([][]string, 0, len(merged))
	for _, row := range merged {
		records = append(records, rowToRecord(row))
	}

	path := s.FilePath(stockCode, year)
	if err := s.writer.WriteCSV(path, Headers(), records); err != nil {
		return err
	}

	slog.Info("persisted ratio rows",
		slog.String("stock_code", stockCode),
		slog.String("year", year),
		slog.Int("rows", len(merged)),
		slog.String("path", path))
	return nil
}

// MergeRows combines existing and new rows. A new row replaces an
// existing row with the same (stock_code, year, quarter) key; the
// result is sorted Q1, H1, Q3, ANNUAL with unknown quarters last.
func MergeRows(existing, newRows []domain.RatioRow) []domain.RatioRow {
	byKey := make(map[string]int, len(existing)+len(newRows))
	merged := make([]domain.RatioRow, 0, len(existing)+len(newRows))

	for _, row := range existing {
		byKey[row.Key()] = len(merged)
		merged = append(merged, row)
	}
	for _, row := range newRows {
		if idx, ok := byKey[row.Key()]; ok {
			merged[idx] = row
			continue
		}
		byKey[row.Key()] = len(merged)
		merged = append(merged, row)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Quarter.SortIndex() < merged[j].Quarter.SortIndex()
	})
	return merged
}

func rowToRecord(row domain.RatioRow) []string {
	record := make([]string, 0, len(fixedColumns)+len(ratios.Names()))
	record = append(record, row.StockCode, row.CorpName, row.Year, string(row.Quarter), row.Label)
	for _, name := range ratios.Names() {
		record = append(record, formatRatioValue(row.Ratios[name]))
	}
	return record
}

// formatRatioValue renders a ratio for CSV output; nil becomes an empty
// field, never a sentinel string.
func formatRatioValue(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func parseRatioValue(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &value
}
