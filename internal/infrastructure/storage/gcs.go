package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/pkg/apperrors"

	gcs "cloud.google.com/go/storage"
)

const uploadTimeout = 2 * time.Minute

var ErrNotConfigured = fmt.Errorf("%w: document storage is not configured", apperrors.ErrUnavailable)

// GCSStore keeps document blobs in a single Google Cloud Storage bucket.
// Credentials come from Application Default Credentials.
type GCSStore struct {
	client *gcs.Client
	bucket string
	logger *slog.Logger
}

var _ document.BlobStore = (*GCSStore)(nil)

func NewGCSStore(ctx context.Context, bucket string, logger *slog.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, ErrNotConfigured
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		logger: logger.With(slog.String("component", "gcsStore"), slog.String("bucket", bucket)),
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, path, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(path).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, body)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("copy document to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload of %s: %w", path, err)
	}
	s.logger.DebugContext(ctx, "Object written", slog.String("path", path), slog.Int64("bytes", n))
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}

func (s *GCSStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(path, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", path, err)
	}
	return url, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// Unavailable is used when no bucket is configured; every call fails.
type Unavailable struct{}

var _ document.BlobStore = Unavailable{}

func (Unavailable) Put(context.Context, string, string, io.Reader) error { return ErrNotConfigured }

func (Unavailable) Delete(context.Context, string) error { return nil }

func (Unavailable) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}
