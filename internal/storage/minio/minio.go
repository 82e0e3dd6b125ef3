// Package minio provides the MinIO-backed blob store.
package minio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/SeanSoulong/admin-bay/internal/storage"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
	UseSSL    bool
}

// Store implements storage.BlobStore on a MinIO (or S3-compatible) bucket.
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// New connects to MinIO and ensures the bucket exists.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
		logger:  logger,
	}, nil
}

// Upload stores one blob under a generated key and returns its public URL.
// An aborted PutObject never produces a referenced object, so cancellation
// needs no cleanup here.
func (s *Store) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	key, err := storage.NewObjectKey(input.Folder, input.FileName)
	if err != nil {
		return nil, err
	}

	if input.Progress != nil {
		input.Progress(0)
	}

	body := storage.NewProgressReader(input.Reader, input.Size, input.Progress)
	_, err = s.client.PutObject(ctx, s.bucket, key, body, input.Size, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.Unavailable(fmt.Errorf("put object %s: %w", key, err))
	}

	if input.Progress != nil {
		input.Progress(100)
	}

	return &storage.UploadResult{
		Key: key,
		URL: s.baseURL + "/" + s.bucket + "/" + key,
	}, nil
}

// Delete removes the blob a public URL points at. URLs that match neither
// known scheme are logged and skipped; record cleanup must not fail because
// an old record holds a URL nobody can read anymore.
func (s *Store) Delete(ctx context.Context, url string) error {
	key, ok := storage.ParseObjectKey(url, s.bucket)
	if !ok {
		s.logger.Warn("skipping blob delete for unparseable url", slog.String("url", url))
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Unavailable(fmt.Errorf("remove object %s: %w", key, err))
	}
	return nil
}

// Ping verifies the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return apperrors.Unavailable(fmt.Errorf("ping blob store: %w", err))
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
