package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dartcli/pkg/contracts/domain"
)

func TestLoadCompaniesAdHocCodesHaveEmptyLabel(t *testing.T) {
	companies, err := loadCompanies("", "005930, 019440,")
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, domain.CompanyRef{StockCode: "005930"}, companies[0])
	assert.Equal(t, domain.CompanyRef{StockCode: "019440"}, companies[1])
	for _, company := range companies {
		assert.Empty(t, company.Label)
	}
}

func TestLoadCompaniesSourceSelection(t *testing.T) {
	_, err := loadCompanies("", "")
	require.Error(t, err)

	_, err = loadCompanies("list.csv", "005930")
	require.Error(t, err)

	_, err = loadCompanies("", " , ,")
	require.Error(t, err)
}

func TestParseYears(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "single", raw: "2023", want: []string{"2023"}},
		{name: "list", raw: "2021, 2023", want: []string{"2021", "2023"}},
		{name: "range", raw: "2020-2022", want: []string{"2020", "2021", "2022"}},
		{name: "mixed dedup", raw: "2022,2021-2023", want: []string{"2022", "2021", "2023"}},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "reversed range", raw: "2023-2020", wantErr: true},
		{name: "not a year", raw: "20x3", wantErr: true},
		{name: "out of range", raw: "1899", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseYears(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuarters(t *testing.T) {
	periods, err := parseQuarters("q1, annual")
	require.NoError(t, err)
	assert.Equal(t, []domain.ReportPeriod{domain.PeriodQ1, domain.PeriodAnnual}, periods)

	periods, err = parseQuarters("")
	require.NoError(t, err)
	assert.Nil(t, periods)

	_, err = parseQuarters("Q1,Q5")
	require.Error(t, err)
}
