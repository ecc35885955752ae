package dart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dartcli/internal/errors"
	"dartcli/pkg/contracts/domain"
)

const testCorpCodeXML = `<result>
  <list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code><modify_date>20240101</modify_date></list>
  <list><corp_code>00164779</corp_code><corp_name>SK하이닉스</corp_name><stock_code>000660</stock_code><modify_date>20240101</modify_date></list>
  <list><corp_code>99999999</corp_code><corp_name>삼성전자서비스</corp_name><stock_code></stock_code><modify_date>20240101</modify_date></list>
</result>`

func writeCorpCodeXML(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpCode.xml")
	require.NoError(t, os.WriteFile(path, []byte(testCorpCodeXML), 0644))
	return path
}

func TestLoadCorpCodes(t *testing.T) {
	rows, err := LoadCorpCodes(writeCorpCodeXML(t))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "00126380", rows[0].CorpCode)
	assert.Equal(t, "삼성전자", rows[0].CorpName)
	assert.Equal(t, "005930", rows[0].StockCode)
	// Unlisted entries carry an empty stock code.
	assert.Equal(t, "", rows[2].StockCode)
}

func TestFindCorp(t *testing.T) {
	rows, err := LoadCorpCodes(writeCorpCodeXML(t))
	require.NoError(t, err)

	t.Run("name substring", func(t *testing.T) {
		matches := FindCorp(rows, "삼성", "", 0)
		require.Len(t, matches, 2)
	})

	t.Run("exact stock code", func(t *testing.T) {
		matches := FindCorp(rows, "", "000660", 0)
		require.Len(t, matches, 1)
		assert.Equal(t, "SK하이닉스", matches[0].CorpName)
	})

	t.Run("name and stock code combined", func(t *testing.T) {
		matches := FindCorp(rows, "삼성", "005930", 0)
		require.Len(t, matches, 1)
		assert.Equal(t, "00126380", matches[0].CorpCode)
	})

	t.Run("limit caps results", func(t *testing.T) {
		matches := FindCorp(rows, "삼성", "", 1)
		assert.Len(t, matches, 1)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FindCorp(rows, "현대", "", 0))
	})
}

func TestResolverResolve(t *testing.T) {
	resolver := NewResolver(nil, writeCorpCodeXML(t))
	ctx := context.Background()

	t.Run("explicit corp code wins", func(t *testing.T) {
		code, err := resolver.Resolve(ctx, domain.CompanyRef{CorpCode: "12345678", StockCode: "005930"})
		require.NoError(t, err)
		assert.Equal(t, "12345678", code)
	})

	t.Run("by stock code", func(t *testing.T) {
		code, err := resolver.Resolve(ctx, domain.CompanyRef{StockCode: "005930"})
		require.NoError(t, err)
		assert.Equal(t, "00126380", code)
	})

	t.Run("by name", func(t *testing.T) {
		code, err := resolver.Resolve(ctx, domain.CompanyRef{CorpName: "SK하이닉스"})
		require.NoError(t, err)
		assert.Equal(t, "00164779", code)
	})

	t.Run("unknown company", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, domain.CompanyRef{StockCode: "111111"})
		require.Error(t, err)
		var resErr *errors.ResolutionError
		assert.True(t, errors.As(err, &resErr))
	})

	t.Run("empty reference", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, domain.CompanyRef{})
		require.Error(t, err)
		var resErr *errors.ResolutionError
		assert.True(t, errors.As(err, &resErr))
	})
}
