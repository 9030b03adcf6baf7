package blobstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"pasar/internal/apperrors"
)

// Config holds the connection details for an S3-compatible store
// (AWS S3 or a MinIO-style deployment with a custom endpoint).
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store is the S3-backed implementation of Store.
type S3Store struct {
	client *s3.Client
	cfg    Config
}

// NewS3Store builds an S3 client from static credentials and an optional
// custom base endpoint.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, cfg: cfg}, nil
}

// storageKey shards avatar objects by upload date.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload decodes a base64 avatar source (optionally a data URI) and writes
// it to the bucket. The returned PublicID is the object key.
func (s *S3Store) Upload(ctx context.Context, source string) (*Resource, error) {
	contentType := "application/octet-stream"
	payload := source

	// data:image/png;base64,AAAA... -> content type + raw base64
	if strings.HasPrefix(source, "data:") {
		header, rest, found := strings.Cut(source, ",")
		if !found {
			return nil, fmt.Errorf("%w: malformed data URI", apperrors.ErrBlobStoreFailure)
		}
		payload = rest
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", apperrors.ErrBlobStoreFailure, err)
	}

	key := storageKey()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %v", apperrors.ErrBlobStoreFailure, err)
	}

	return &Resource{
		PublicID: key,
		URL:      s.objectURL(key),
	}, nil
}

// Destroy removes the object with the given public id.
func (s *S3Store) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%w: destroy %s: %v", apperrors.ErrBlobStoreFailure, publicID, err)
	}
	return nil
}

func (s *S3Store) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
