// Package storage issues presigned URLs for product images kept in an
// S3-compatible bucket (MinIO in development).
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"sima/internal/config"
)

// ErrNotConfigured is returned by LoadConfig when no endpoint is set
var ErrNotConfigured = errors.New("object storage not configured")

// Service defines the interface for storage operations
type Service interface {
	// PresignUpload creates a time-limited URL for uploading an object
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// PresignDownload creates a time-limited URL for downloading an object
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// EnsureBucketExists creates the bucket if it doesn't exist
	EnsureBucketExists(ctx context.Context) error

	// Health checks if the storage service is accessible
	Health(ctx context.Context) error
}

// Config holds S3 connection settings
type Config struct {
	Endpoint       string
	PublicEndpoint string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

// LoadConfig reads S3 settings from the environment. Storage is optional:
// ErrNotConfigured means S3_ENDPOINT is unset. Any other error names the
// missing variables.
func LoadConfig() (*Config, error) {
	endpoint := config.GetEnvOrDefault("S3_ENDPOINT", "")
	if endpoint == "" {
		return nil, ErrNotConfigured
	}

	if err := config.ValidateEnv([]string{"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET_NAME"}); err != nil {
		return nil, err
	}

	return &Config{
		Endpoint:       endpoint,
		PublicEndpoint: config.GetEnvOrDefault("S3_PUBLIC_ENDPOINT", endpoint),
		Region:         config.GetEnvOrDefault("S3_REGION", "us-east-1"),
		AccessKey:      config.GetEnvOrDefault("S3_ACCESS_KEY", ""),
		SecretKey:      config.GetEnvOrDefault("S3_SECRET_KEY", ""),
		Bucket:         config.GetEnvOrDefault("S3_BUCKET_NAME", ""),
		UseSSL:         config.GetEnvBool("S3_USE_SSL", false),
	}, nil
}

func (c *Config) url(host string) string {
	if c.UseSSL {
		return "https://" + host
	}
	return "http://" + host
}

type service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// New creates a storage service. Presigned URLs point at the public
// endpoint so browsers can reach them; other calls use the internal one.
func New(ctx context.Context, cfg *Config) (Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.url(cfg.Endpoint))
		o.UsePathStyle = true
	})

	publicClient := client
	if cfg.PublicEndpoint != cfg.Endpoint {
		publicClient = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.url(cfg.PublicEndpoint))
			o.UsePathStyle = true
		})
		slog.Info("Using public endpoint for presigned URLs", "endpoint", cfg.PublicEndpoint)
	}

	return &service{
		client:    client,
		presigner: s3.NewPresignClient(publicClient),
		bucket:    cfg.Bucket,
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't already exist
func (s *service) EnsureBucketExists(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	slog.Info("Created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *service) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("object key cannot be empty")
	}
	if contentType == "" {
		return "", errors.New("content type cannot be empty")
	}
	if ttl <= 0 {
		return "", errors.New("TTL must be positive")
	}

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	return request.URL, nil
}

func (s *service) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("object key cannot be empty")
	}
	if ttl <= 0 {
		return "", errors.New("TTL must be positive")
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}

	return request.URL, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key cannot be empty")
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

func (s *service) Health(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
