package store

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the connection settings of an S3 compatible bucket
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
	// Prefix is prepended to every key, e.g. "downloads/"
	Prefix string
}

// S3Sink uploads objects to an S3 compatible bucket
type S3Sink struct {
	client *minio.Client
	cfg    S3Config
}

// NewS3Sink connects to the endpoint and checks that the bucket exists
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &S3Sink{client: client, cfg: cfg}, nil
}

func (s *S3Sink) objectKey(key string) string {
	return s.cfg.Prefix + key
}

// Location returns the object URL
func (s *S3Sink) Location(key string) string {
	scheme := "http"
	if s.cfg.Secure {
		scheme = "https"
	}
	escaped := url.PathEscape(filepath.ToSlash(s.objectKey(key)))
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, escaped)
}

// Put uploads data under the prefixed key
func (s *S3Sink) Put(ctx context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, s.objectKey(key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	log.Debug("uploaded object", "bucket", info.Bucket, "key", info.Key, "etag", info.ETag)
	return nil
}
