package collector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"dartcli/internal/exporter"
	"dartcli/pkg/contracts/domain"
)

var validate = validator.New()

// LoadCompanies reads a company list file. CSV and XLSX are supported,
// selected by file extension. Required columns: stock_code, corp_name,
// label. Optional: corp_code, sector.
func LoadCompanies(path string) ([]domain.CompanyRef, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCompaniesCSV(path)
	case ".xlsx":
		return loadCompaniesXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported company list format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

func loadCompaniesCSV(path string) ([]domain.CompanyRef, error) {
	headers, records, err := exporter.ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("read company list %s: %w", path, err)
	}
	return rowsToCompanies(path, headers, records)
}

func loadCompaniesXLSX(path string) ([]domain.CompanyRef, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open company list %s: %w", path, err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("company list %s has no sheets", path)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("company list %s is empty", path)
	}
	return rowsToCompanies(path, rows[0], rows[1:])
}

func rowsToCompanies(path string, headers []string, records [][]string) ([]domain.CompanyRef, error) {
	columnIndex := make(map[string]int, len(headers))
	for i, header := range headers {
		columnIndex[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"stock_code", "corp_name", "label"} {
		if _, ok := columnIndex[required]; !ok {
			return nil, fmt.Errorf("company list %s: missing required column %q", path, required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columnIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	companies := make([]domain.CompanyRef, 0, len(records))
	for i, record := range records {
		company := domain.CompanyRef{
			StockCode: field(record, "stock_code"),
			CorpName:  field(record, "corp_name"),
			CorpCode:  field(record, "corp_code"),
			Label:     field(record, "label"),
			Sector:    field(record, "sector"),
		}
		if company.StockCode == "" && company.CorpName == "" {
			// Blank padding rows in hand-maintained sheets.
			continue
		}
		if err := validate.Struct(company); err != nil {
			return nil, fmt.Errorf("company list %s row %d: %w", path, i+2, err)
		}
		companies = append(companies, company)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("company list %s contains no companies", path)
	}
	return companies, nil
}
