package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"eu-west-2":      "s3.eu-west-2.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
	"ap-southeast-2": "s3.ap-southeast-2.wasabisys.com",
}

// Config holds configuration for S3-compatible document storage
type Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string

	// Wasabi-specific endpoint override, e.g. "s3.ap-southeast-1.wasabisys.com"
	Endpoint string
}

// S3Storage stores candidate documents in an S3-compatible bucket and
// reports byte-level transfer progress.
type S3Storage struct {
	client *s3.Client
	cfg    Config
}

// NewS3Storage creates a storage client for AWS S3 or Wasabi.
func NewS3Storage(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client

	switch cfg.Provider {
	case ProviderWasabi:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			if ep, ok := WasabiEndpoints[cfg.Region]; ok {
				endpoint = ep
			} else {
				return nil, fmt.Errorf("unknown Wasabi region: %s", cfg.Region)
			}
		}
		cfg.Endpoint = endpoint
		// Wasabi requires custom endpoint and path-style addressing
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + endpoint)
			o.UsePathStyle = true
		})
	default:
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{client: client, cfg: cfg}, nil
}

// Upload stores the object under key and returns its public URL. onProgress,
// when non-nil, receives the cumulative number of bytes read from body.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64, onProgress func(written int64)) (string, error) {
	reader := io.Reader(body)
	if onProgress != nil {
		reader = &progressReader{r: body, onProgress: onProgress}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Storage) objectURL(key string) string {
	if s.cfg.Provider == ProviderWasabi {
		return fmt.Sprintf("https://%s/%s/%s", s.cfg.Endpoint, s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// progressReader reports cumulative bytes read to a callback.
type progressReader struct {
	r          io.Reader
	written    int64
	onProgress func(written int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.onProgress(p.written)
	}
	return n, err
}
