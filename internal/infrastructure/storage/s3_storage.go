package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/infrastructure/metrics"
	"stylist-server/internal/utils/imagekey"
)

// S3Storage writes images to an S3-compatible bucket and returns public
// object URLs built from the configured endpoint.
type S3Storage struct {
	bucket    string
	keyPrefix string
	publicURL string
	client    *s3.Client
	log       zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	publicURL := strings.TrimSpace(cfg.S3PublicEndpoint)
	if publicURL == "" {
		publicURL = strings.TrimSpace(cfg.S3Endpoint)
	}
	publicURL = strings.TrimSuffix(publicURL, "/") + "/" + cfg.S3Bucket

	logger.Info().Str("bucket", cfg.S3Bucket).Str("public_url", publicURL).Msg("s3 storage initialized")
	return &S3Storage{
		bucket:    cfg.S3Bucket,
		keyPrefix: cfg.S3KeyPrefix,
		publicURL: publicURL,
		client:    client,
		log:       logger,
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, data []byte, ext, contentType string) (*ingest.StoredImage, error) {
	key := s.keyPrefix + imagekey.New() + "." + strings.TrimPrefix(ext, ".")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		metrics.RecordStorageOperation("bucket", "put", "error", 0)
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}
	metrics.RecordStorageOperation("bucket", "put", "ok", int64(len(data)))

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return &ingest.StoredImage{
		URL:     s.publicURL + "/" + key,
		Backend: "bucket",
		Key:     key,
	}, nil
}

// Delete removes the object behind a previously returned URL.
func (s *S3Storage) Delete(ctx context.Context, url string) bool {
	key := strings.TrimPrefix(strings.TrimPrefix(url, s.publicURL), "/")
	if key == "" || key == url {
		return false
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("image delete failed")
		metrics.RecordStorageOperation("bucket", "delete", "error", 0)
		return false
	}
	metrics.RecordStorageOperation("bucket", "delete", "ok", 0)
	return true
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
