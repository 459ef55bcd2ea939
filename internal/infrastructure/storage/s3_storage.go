// Package storage provides object storage implementations for report archival.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	exportapp "github.com/pulsetronic/backend/internal/application/export"
	infraconfig "github.com/pulsetronic/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3ReportStorage implements ReportStorage
var _ exportapp.ReportStorage = (*S3ReportStorage)(nil)

// reportKeyPrefix groups archived reports inside the bucket
const reportKeyPrefix = "reports/"

// S3ReportStorage archives report files using the AWS S3 SDK v2.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, localstack, etc.)
type S3ReportStorage struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3ReportStorageOption is a functional option for configuring S3ReportStorage
type S3ReportStorageOption func(*S3ReportStorage)

// WithLogger sets a custom logger for S3ReportStorage
func WithLogger(logger *zap.Logger) S3ReportStorageOption {
	return func(s *S3ReportStorage) {
		s.logger = logger
	}
}

// NewS3ReportStorage creates a new S3ReportStorage from configuration
func NewS3ReportStorage(cfg *infraconfig.ExportConfig, opts ...S3ReportStorageOption) (*S3ReportStorage, error) {
	if cfg == nil {
		return nil, errors.New("export configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("export S3 bucket is required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "sa-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if cfg.S3KeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3KeyID, cfg.S3Secret, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			endpoint := cfg.S3Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
				// Custom endpoints (MinIO, localstack) need path-style addressing
				o.UsePathStyle = true
			}
		}
	})

	storage := &S3ReportStorage{
		client: client,
		bucket: cfg.S3Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}

	return storage, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ReportStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating report bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Report bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads a report file under reports/<filename>
func (s *S3ReportStorage) Store(ctx context.Context, filename string, data []byte, contentType string) error {
	if filename == "" {
		return errors.New("filename is required")
	}

	key := reportKeyPrefix + filename
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	s.logger.Debug("report archived",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}

// DownloadURL generates a presigned URL for a previously archived report
func (s *S3ReportStorage) DownloadURL(ctx context.Context, filename string, expiresIn time.Duration) (string, error) {
	if filename == "" {
		return "", errors.New("filename is required")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	presignClient := s3.NewPresignClient(s.client)
	presignReq, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(reportKeyPrefix + filename),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	return presignReq.URL, nil
}
