// Package archive mirrors raw OpenDART statement responses for later
// reprocessing. Two backends exist: an S3 mirror keyed by sector and a
// plain local file store. Both receive the exact JSON list returned by
// the API, before any normalization.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dartcli/pkg/contracts/domain"
)

// Archiver stores one raw statement payload for a company period.
type Archiver interface {
	Archive(ctx context.Context, company domain.CompanyRef, year string, period domain.ReportPeriod, items []domain.RawLineItem) error
}

// ObjectKey builds the storage key for one raw dump:
// {sector}/{stock_code}_{year}_{quarter}.json. Companies without a
// sector fall into the "Unknown" prefix.
func ObjectKey(company domain.CompanyRef, year string, period domain.ReportPeriod) string {
	return fmt.Sprintf("%s/%s_%s_%s.json", company.SectorOrDefault(), company.StockCode, year, period)
}

func encodeItems(items []domain.RawLineItem) ([]byte, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode raw statement items: %w", err)
	}
	return payload, nil
}

// LocalArchive writes raw dumps as flat files under a directory,
// ignoring the sector prefix used by the S3 mirror.
type LocalArchive struct {
	dir string
}

// NewLocalArchive creates a local raw-file archive rooted at dir.
func NewLocalArchive(dir string) *LocalArchive {
	return &LocalArchive{dir: dir}
}

// Archive writes items as {stock_code}_{year}_{quarter}.json under the
// archive directory.
func (a *LocalArchive) Archive(_ context.Context, company domain.CompanyRef, year string, period domain.ReportPeriod, items []domain.RawLineItem) error {
	payload, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("create raw directory %s: %w", a.dir, err)
	}
	path := filepath.Join(a.dir, fmt.Sprintf("%s_%s_%s.json", company.StockCode, year, period))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write raw file %s: %w", path, err)
	}
	return nil
}
