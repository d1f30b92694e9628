package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"

	"diet-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrArchiveDisabled is returned when no reports bucket is configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReportArchive uploads generated reports to an S3-compatible bucket
// (AWS S3, Cloudflare R2, MinIO).
type ReportArchive struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewReportArchive builds an archive from cfg. It returns nil, nil when no
// bucket is configured.
func NewReportArchive(ctx context.Context, cfg config.ReportsConfig) (*ReportArchive, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	log.Printf("[Reports] Archiving daily reports to bucket %s", cfg.Bucket)
	return newReportArchive(client, cfg.Bucket, cfg.Prefix), nil
}

func newReportArchive(client putObjectAPI, bucket, prefix string) *ReportArchive {
	return &ReportArchive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key used for name.
func (a *ReportArchive) Key(name string) string {
	return path.Join(a.prefix, name)
}

// Upload stores data under name and returns the object key.
func (a *ReportArchive) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if a == nil {
		return "", ErrArchiveDisabled
	}
	key := a.Key(name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	log.Printf("[Reports] Uploaded %s (%d bytes)", key, len(data))
	return key, nil
}
