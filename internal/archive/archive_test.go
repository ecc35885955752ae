package archive

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dartcli/internal/errors"
	"dartcli/internal/infrastructure"
	"dartcli/pkg/contracts/domain"
)

func sampleItems() []domain.RawLineItem {
	return []domain.RawLineItem{
		{AccountName: "자산총계", Section: domain.SectionBalanceSheet, CurrentAmount: "1,000"},
	}
}

func samsung() domain.CompanyRef {
	return domain.CompanyRef{StockCode: "005930", CorpName: "삼성전자", Label: "반도체", Sector: "전기전자"}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(samsung(), "2023", domain.PeriodQ1)
	assert.Equal(t, "전기전자/005930_2023_Q1.json", key)

	noSector := samsung()
	noSector.Sector = ""
	assert.Equal(t, "Unknown/005930_2023_ANNUAL.json",
		ObjectKey(noSector, "2023", domain.PeriodAnnual))
}

func TestLocalArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	archive := NewLocalArchive(dir)

	err := archive.Archive(context.Background(), samsung(), "2023", domain.PeriodH1, sampleItems())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "005930_2023_H1.json"))
	require.NoError(t, err)

	var decoded []domain.RawLineItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "자산총계", decoded[0].AccountName)
}

// putRecord captures one PutObject call.
type putRecord struct {
	bucket string
	key    string
	body   []byte
}

type fakeS3 struct {
	puts          []putRecord
	putErrs       []error // popped per call; nil slice means success
	createErr     error
	createdBucket string
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	f.puts = append(f.puts, putRecord{bucket: *params.Bucket, key: *params.Key, body: body})
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdBucket = *params.Bucket
	return &s3.CreateBucketOutput{}, nil
}

type fakeAPIError struct{ code string }

func (e *fakeAPIError) Error() string                 { return e.code }
func (e *fakeAPIError) ErrorCode() string             { return e.code }
func (e *fakeAPIError) ErrorMessage() string          { return e.code }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func testS3Archive(client s3API) *S3Archive {
	return NewS3ArchiveWithClient(client, "dart-raw", "ap-northeast-2", infrastructure.GetLogger())
}

func TestS3ArchiveUpload(t *testing.T) {
	client := &fakeS3{}
	archive := testS3Archive(client)

	err := archive.Archive(context.Background(), samsung(), "2023", domain.PeriodQ1, sampleItems())
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	assert.Equal(t, "dart-raw", client.puts[0].bucket)
	assert.Equal(t, "전기전자/005930_2023_Q1.json", client.puts[0].key)

	var decoded []domain.RawLineItem
	require.NoError(t, json.Unmarshal(client.puts[0].body, &decoded))
	require.Len(t, decoded, 1)
}

func TestS3ArchiveCreatesMissingBucket(t *testing.T) {
	client := &fakeS3{putErrs: []error{&s3types.NoSuchBucket{}, nil}}
	archive := testS3Archive(client)

	err := archive.Archive(context.Background(), samsung(), "2023", domain.PeriodQ1, sampleItems())
	require.NoError(t, err)

	assert.Equal(t, "dart-raw", client.createdBucket)
	assert.Len(t, client.puts, 2)
}

func TestS3ArchiveAccessDeniedOnCreateIsNotFatal(t *testing.T) {
	client := &fakeS3{
		putErrs:   []error{&s3types.NoSuchBucket{}},
		createErr: &fakeAPIError{code: "AccessDenied"},
	}
	archive := testS3Archive(client)

	err := archive.Archive(context.Background(), samsung(), "2023", domain.PeriodQ1, sampleItems())
	assert.NoError(t, err)
	assert.Len(t, client.puts, 1)
}

func TestS3ArchiveOtherErrorsAreStorageErrors(t *testing.T) {
	client := &fakeS3{putErrs: []error{&fakeAPIError{code: "SlowDown"}}}
	archive := testS3Archive(client)

	err := archive.Archive(context.Background(), samsung(), "2023", domain.PeriodQ1, sampleItems())
	require.Error(t, err)

	var storageErr *errors.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "전기전자/005930_2023_Q1.json", storageErr.Key)
}
