package dart

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"dartcli/internal/errors"
	"dartcli/pkg/contracts/domain"
)

// corpCodeFile mirrors the root element of corpCode.xml.
type corpCodeFile struct {
	XMLName xml.Name          `xml:"result"`
	List    []domain.CorpCode `xml:"list"`
}

// LoadCorpCodes parses a previously downloaded corpCode.xml.
func LoadCorpCodes(xmlPath string) ([]domain.CorpCode, error) {
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("read corp code xml %s: %w", xmlPath, err)
	}

	var file corpCodeFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse corp code xml: %w", err)
	}

	rows := file.List
	for i := range rows {
		rows[i].CorpCode = strings.TrimSpace(rows[i].CorpCode)
		rows[i].CorpName = strings.TrimSpace(rows[i].CorpName)
		rows[i].StockCode = strings.TrimSpace(rows[i].StockCode)
		rows[i].ModifyDate = strings.TrimSpace(rows[i].ModifyDate)
	}
	return rows, nil
}

// FindCorp filters the corp-code table by company-name substring
// (case-insensitive) and/or exact stock code, capped at limit rows.
func FindCorp(rows []domain.CorpCode, corpName, stockCode string, limit int) []domain.CorpCode {
	nameQuery := strings.ToLower(strings.TrimSpace(corpName))
	stockQuery := strings.TrimSpace(stockCode)

	var results []domain.CorpCode
	for _, row := range rows {
		if nameQuery != "" && !strings.Contains(strings.ToLower(row.CorpName), nameQuery) {
			continue
		}
		if stockQuery != "" && stockQuery != row.StockCode {
			continue
		}
		results = append(results, row)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}

// Resolver maps companies to DART corp codes using the cached
// corpCode.xml, downloading it on first use.
type Resolver struct {
	client  *Client
	xmlPath string
	rows    []domain.CorpCode
}

// NewResolver creates a resolver backed by the given client and cache
// location.
func NewResolver(client *Client, xmlPath string) *Resolver {
	return &Resolver{client: client, xmlPath: xmlPath}
}

// ensure downloads and loads the corp-code table once per run.
func (r *Resolver) ensure(ctx context.Context) error {
	if r.rows != nil {
		return nil
	}
	if _, err := os.Stat(r.xmlPath); err != nil {
		if err := r.client.DownloadCorpCodes(ctx, r.xmlPath); err != nil {
			return err
		}
	}
	rows, err := LoadCorpCodes(r.xmlPath)
	if err != nil {
		return err
	}
	r.rows = rows
	return nil
}

// Refresh forces a redownload of the corp-code table.
func (r *Resolver) Refresh(ctx context.Context) error {
	if err := r.client.DownloadCorpCodes(ctx, r.xmlPath); err != nil {
		return err
	}
	r.rows = nil
	return r.ensure(ctx)
}

// Find searches the corp-code table, downloading it first if needed.
func (r *Resolver) Find(ctx context.Context, corpName, stockCode string, limit int) ([]domain.CorpCode, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	return FindCorp(r.rows, corpName, stockCode, limit), nil
}

// Resolve determines the DART corp_code for a company. An explicit
// corp_code on the reference wins; otherwise stock code then corp name
// are tried against the lookup table.
func (r *Resolver) Resolve(ctx context.Context, company domain.CompanyRef) (string, error) {
	if company.CorpCode != "" {
		return company.CorpCode, nil
	}
	if company.StockCode == "" && company.CorpName == "" {
		return "", errors.NewResolutionError(company.StockCode, company.CorpName,
			errors.New("company has neither stock code nor name"))
	}

	if err := r.ensure(ctx); err != nil {
		return "", errors.NewResolutionError(company.StockCode, company.CorpName, err)
	}

	var matches []domain.CorpCode
	if company.StockCode != "" {
		matches = FindCorp(r.rows, "", company.StockCode, 1)
	} else {
		matches = FindCorp(r.rows, company.CorpName, "", 1)
	}
	if len(matches) == 0 {
		return "", errors.NewResolutionError(company.StockCode, company.CorpName, nil)
	}
	return matches[0].CorpCode, nil
}
