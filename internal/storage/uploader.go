// Package storage uploads rendered invoice documents to object storage and
// hands back time-limited retrieval URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Config holds object storage settings. Static keys take precedence; when
// absent and CredentialsSecret is set, the key pair is fetched from Secrets
// Manager. With neither, the SDK's default credential chain applies.
type Config struct {
	Bucket            string
	Region            string
	Endpoint          string // non-empty for S3-compatible stores (MinIO etc.)
	AccessKeyID       string
	SecretAccessKey   string
	CredentialsSecret string
	URLTTL            time.Duration
}

const defaultURLTTL = 6 * time.Hour

// S3Uploader stores documents in a single bucket and signs GET URLs.
type S3Uploader struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewS3Uploader creates an uploader for the configured bucket.
func NewS3Uploader(ctx context.Context, cfg Config, logger zerolog.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	provider, err := resolveCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve storage credentials: %w", err)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if provider != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(provider))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = defaultURLTTL
	}

	return &S3Uploader{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
		logger:  logger,
	}, nil
}

// Upload stores the document under the given object name and returns a
// presigned retrieval URL valid for the configured TTL.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	u.logger.Debug().Str("bucket", u.bucket).Str("key", name).Int("bytes", len(data)).Msg("document uploaded")

	signed, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(name),
	}, s3.WithPresignExpires(u.ttl))
	if err != nil {
		return "", fmt.Errorf("sign retrieval url for %s: %w", name, err)
	}

	return signed.URL, nil
}
