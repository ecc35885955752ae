package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dartcli/internal/config"
	"dartcli/internal/errors"
	"dartcli/pkg/contracts/domain"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", config.DartConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		// No fetch delay in tests.
	}, nil)
}

func TestFetchStatementsOK(t *testing.T) {
	var gotQuery map[string]string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"crtfc_key":  r.URL.Query().Get("crtfc_key"),
			"corp_code":  r.URL.Query().Get("corp_code"),
			"bsns_year":  r.URL.Query().Get("bsns_year"),
			"reprt_code": r.URL.Query().Get("reprt_code"),
			"fs_div":     r.URL.Query().Get("fs_div"),
		}
		w.Write([]byte(`{"status":"000","message":"정상","list":[
			{"account_nm":"자산총계","sj_div":"BS","thstrm_amount":"1,000","frmtrm_amount":"900","bfefrmtrm_amount":"800"}
		]}`))
	}))

	items, err := client.FetchStatements(context.Background(), "00126380", "2023", domain.PeriodQ1, domain.DivisionConsolidated)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "자산총계", items[0].AccountName)
	assert.Equal(t, domain.SectionBalanceSheet, items[0].Section)
	assert.Equal(t, "1,000", items[0].CurrentAmount)

	assert.Equal(t, map[string]string{
		"crtfc_key":  "test-key",
		"corp_code":  "00126380",
		"bsns_year":  "2023",
		"reprt_code": "11013",
		"fs_div":     "CFS",
	}, gotQuery)
}

func TestFetchStatementsNoData(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"013","message":"조회된 데이타가 없습니다."}`))
	}))

	items, err := client.FetchStatements(context.Background(), "00126380", "2023", domain.PeriodAnnual, domain.DivisionSeparate)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchStatementsAPIError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"020","message":"사용한도 초과"}`))
	}))

	_, err := client.FetchStatements(context.Background(), "00126380", "2023", domain.PeriodQ3, domain.DivisionConsolidated)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "020", apiErr.Status)
}

func TestFetchStatementsValidatesInputs(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid inputs")
	}))

	_, err := client.FetchStatements(context.Background(), "00126380", "2023", domain.ReportPeriod("Q5"), domain.DivisionConsolidated)
	assert.Error(t, err)

	_, err = client.FetchStatements(context.Background(), "00126380", "2023", domain.PeriodQ1, domain.StatementDivision("XFS"))
	assert.Error(t, err)
}

func TestFetchStatementsHTTPError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchStatements(context.Background(), "00126380", "2023", domain.PeriodQ1, domain.DivisionConsolidated)
	assert.Error(t, err)
}

func corpCodeZip(t *testing.T, xmlBody string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CORPCODE.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(xmlBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDownloadCorpCodes(t *testing.T) {
	xmlBody := `<result><list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code><modify_date>20240101</modify_date></list></result>`
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(corpCodeZip(t, xmlBody))
	}))

	outPath := filepath.Join(t.TempDir(), "sub", "corpCode.xml")
	require.NoError(t, client.DownloadCorpCodes(context.Background(), outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, xmlBody, string(data))
}

func TestDownloadCorpCodesErrorEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"010","message":"등록되지 않은 키입니다."}`))
	}))

	err := client.DownloadCorpCodes(context.Background(), filepath.Join(t.TempDir(), "corpCode.xml"))
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "010", apiErr.Status)
}
