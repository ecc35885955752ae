package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dartcli/internal/ratios"
	"dartcli/pkg/contracts/domain"
)

func f(v float64) *float64 { return &v }

func row(stockCode, year string, quarter domain.ReportPeriod, netMargin *float64) domain.RatioRow {
	r := domain.RatioRow{
		StockCode: stockCode,
		CorpName:  "삼성전자",
		Year:      year,
		Quarter:   quarter,
		Label:     "반도체",
		Ratios:    make(map[string]*float64, len(ratios.Names())),
	}
	for _, name := range ratios.Names() {
		r.Ratios[name] = nil
	}
	r.Ratios["매출액순이익률"] = netMargin
	return r
}

func TestWriteCSVAddsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	writer := NewCSVWriter()
	err := writer.WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestReadCSVStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")

	writer := NewCSVWriter()
	require.NoError(t, writer.WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}}))

	headers, records, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, headers)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"1", "2"}, records[0])
}

func TestReadCSVMissingFile(t *testing.T) {
	_, _, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestHeadersLayout(t *testing.T) {
	headers := Headers()
	require.Len(t, headers, 5+len(ratios.Names()))
	assert.Equal(t, []string{"stock_code", "corp_name", "year", "quarter", "label"}, headers[:5])
	assert.Equal(t, ratios.Names(), headers[5:])
}

func TestRatioStoreRoundTrip(t *testing.T) {
	store := NewRatioStore(t.TempDir())

	original := row("005930", "2023", domain.PeriodQ1, f(12.5))
	require.NoError(t, store.Write("005930", "2023", []domain.RatioRow{original}))

	loaded, err := store.Load("005930", "2023")
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, original.StockCode, got.StockCode)
	assert.Equal(t, original.CorpName, got.CorpName)
	assert.Equal(t, original.Year, got.Year)
	assert.Equal(t, original.Quarter, got.Quarter)
	assert.Equal(t, original.Label, got.Label)

	require.NotNil(t, got.Ratios["매출액순이익률"])
	assert.InDelta(t, 12.5, *got.Ratios["매출액순이익률"], 1e-9)
	assert.Nil(t, got.Ratios["부채비율"])
}

func TestRatioStoreLoadMissingFile(t *testing.T) {
	store := NewRatioStore(t.TempDir())
	rows, err := store.Load("000000", "2020")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRatioStoreMergeAndSort(t *testing.T) {
	store := NewRatioStore(t.TempDir())

	// First run persists Q1 and ANNUAL.
	require.NoError(t, store.Write("005930", "2023", []domain.RatioRow{
		row("005930", "2023", domain.PeriodQ1, f(1)),
		row("005930", "2023", domain.PeriodAnnual, f(4)),
	}))

	// Second run adds H1 and overwrites Q1.
	require.NoError(t, store.Write("005930", "2023", []domain.RatioRow{
		row("005930", "2023", domain.PeriodH1, f(2)),
		row("005930", "2023", domain.PeriodQ1, f(9)),
	}))

	loaded, err := store.Load("005930", "2023")
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.Equal(t, domain.PeriodQ1, loaded[0].Quarter)
	assert.Equal(t, domain.PeriodH1, loaded[1].Quarter)
	assert.Equal(t, domain.PeriodAnnual, loaded[2].Quarter)

	// The Q1 rewrite won.
	require.NotNil(t, loaded[0].Ratios["매출액순이익률"])
	assert.InDelta(t, 9, *loaded[0].Ratios["매출액순이익률"], 1e-9)
}

func TestRatioStoreCollectedQuarters(t *testing.T) {
	store := NewRatioStore(t.TempDir())
	require.NoError(t, store.Write("005930", "2023", []domain.RatioRow{
		row("005930", "2023", domain.PeriodQ1, nil),
		row("005930", "2023", domain.PeriodQ3, nil),
	}))

	collected, err := store.CollectedQuarters("005930", "2023")
	require.NoError(t, err)
	assert.True(t, collected[domain.PeriodQ1])
	assert.True(t, collected[domain.PeriodQ3])
	assert.False(t, collected[domain.PeriodH1])
	assert.False(t, collected[domain.PeriodAnnual])
}

func TestMergeRowsUnknownQuarterSortsLast(t *testing.T) {
	merged := MergeRows(
		[]domain.RatioRow{row("005930", "2023", domain.ReportPeriod("LEGACY"), nil)},
		[]domain.RatioRow{row("005930", "2023", domain.PeriodQ1, nil)},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.PeriodQ1, merged[0].Quarter)
	assert.Equal(t, domain.ReportPeriod("LEGACY"), merged[1].Quarter)
}

func TestFormatRatioValue(t *testing.T) {
	assert.Equal(t, "", formatRatioValue(nil))
	assert.Equal(t, "12.5", formatRatioValue(f(12.5)))
	assert.Equal(t, "-3", formatRatioValue(f(-3)))
}
