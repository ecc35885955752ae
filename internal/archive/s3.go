package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"dartcli/internal/config"
	"dartcli/internal/errors"
	"dartcli/pkg/contracts/domain"
)

// s3API is the subset of the S3 client used by the mirror.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Archive mirrors raw statement JSON to an S3 bucket. A missing
// bucket gets one creation attempt, then the upload is retried once.
type S3Archive struct {
	client s3API
	bucket string
	region string
	logger *slog.Logger
}

// NewS3Archive builds an S3 mirror from the configured static
// credentials and region.
func NewS3Archive(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*S3Archive, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger,
	}, nil
}

// NewS3ArchiveWithClient wires an existing client; used by tests.
func NewS3ArchiveWithClient(client s3API, bucket, region string, logger *slog.Logger) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, region: region, logger: logger}
}

// Archive uploads the raw statement items under the sector-prefixed
// object key. On a missing bucket it creates the bucket once and
// retries the upload once.
func (a *S3Archive) Archive(ctx context.Context, company domain.CompanyRef, year string, period domain.ReportPeriod, items []domain.RawLineItem) error {
	payload, err := encodeItems(items)
	if err != nil {
		return err
	}
	key := ObjectKey(company, year, period)

	err = a.put(ctx, key, payload)
	if err == nil {
		a.logger.Debug("uploaded raw statement",
			slog.String("bucket", a.bucket),
			slog.String("key", key),
			slog.Int("bytes", len(payload)))
		return nil
	}

	if !isNoSuchBucket(err) {
		return errors.NewStorageError(key, err)
	}

	a.logger.Warn("bucket missing, creating it",
		slog.String("bucket", a.bucket),
		slog.String("region", a.region))
	if createErr := a.createBucket(ctx); createErr != nil {
		if isAccessDenied(createErr) {
			// Without bucket-creation rights the mirror stays best-effort;
			// uploads for an existing bucket may still work later.
			a.logger.Warn("not allowed to create bucket, skipping upload",
				slog.String("bucket", a.bucket),
				slog.String("key", key))
			return nil
		}
		return errors.NewStorageError(key, fmt.Errorf("create bucket %s: %w", a.bucket, createErr))
	}

	if err := a.put(ctx, key, payload); err != nil {
		return errors.NewStorageError(key, err)
	}
	a.logger.Debug("uploaded raw statement after bucket creation",
		slog.String("bucket", a.bucket),
		slog.String("key", key))
	return nil
}

func (a *S3Archive) put(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (a *S3Archive) createBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	}
	// us-east-1 rejects an explicit LocationConstraint.
	if a.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(a.region),
		}
	}
	_, err := a.client.CreateBucket(ctx, input)
	return err
}

func isNoSuchBucket(err error) bool {
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket"
}

func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied"
}
