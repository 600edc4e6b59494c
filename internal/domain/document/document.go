package document

import (
	"context"
	"io"
	"time"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

const (
	DefaultMaxUploadBytes int64 = 10 << 20
	DefaultSignedURLTTL         = 15 * time.Minute
	maxDocumentTypeLength       = 50
	maxFileNameLength           = 200
)

type Document struct {
	ID           int64
	CustomerID   int64
	DocumentType string
	FileName     string
	ContentType  string
	SizeBytes    int64
	StoragePath  string
	UploadedBy   string
	UploadedAt   time.Time
}

type Repository interface {
	Insert(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id int64) (*Document, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]*Document, error)
}

// BlobStore holds document bytes keyed by storage path.
type BlobStore interface {
	Put(ctx context.Context, path, contentType string, body io.Reader) error
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type UploadInput struct {
	CustomerID   int64
	DocumentType string
	FileName     string
	Size         int64
	Body         io.Reader
}

type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}
