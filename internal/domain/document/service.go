package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/infrastructure/monitoring"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/google/uuid"
)

const sniffLength = 512

var allowedContentTypes = map[string]bool{
	ContentTypePDF:  true,
	ContentTypeJPEG: true,
	ContentTypePNG:  true,
}

// Access decides whether an actor may touch a customer's records.
type Access interface {
	Authorize(ctx context.Context, actor identity.Identity, customerID int64) error
}

type Service interface {
	Upload(ctx context.Context, actor identity.Identity, in UploadInput) (*Document, error)
	List(ctx context.Context, actor identity.Identity, customerID int64) ([]*Document, error)
	SignedURL(ctx context.Context, actor identity.Identity, documentID int64) (*SignedURL, error)
}

type Options struct {
	MaxUploadBytes int64
	SignedURLTTL   time.Duration
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	blobs  BlobStore
	access Access
	audit  audit.Recorder
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo Repository, blobs BlobStore, access Access, recorder audit.Recorder, opts Options, logger *slog.Logger) Service {
	if repo == nil || blobs == nil || access == nil {
		panic("document service requires a repository, blob store and access checker")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to document.NewService, using default stderr handler")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.SignedURLTTL <= 0 {
		opts.SignedURLTTL = DefaultSignedURLTTL
	}
	return &service{
		repo:   repo,
		blobs:  blobs,
		access: access,
		audit:  recorder,
		opts:   opts,
		now:    time.Now,
		logger: logger.With(slog.String("component", "documentService")),
	}
}

func (s *service) Upload(ctx context.Context, actor identity.Identity, in UploadInput) (*Document, error) {
	logger := s.logger.With(slog.Int64("customerID", in.CustomerID), slog.String("actorID", actor.UserID))
	logger.InfoContext(ctx, "Attempting to upload document")

	if err := s.access.Authorize(ctx, actor, in.CustomerID); err != nil {
		return nil, err
	}

	docType := strings.ToUpper(strings.TrimSpace(in.DocumentType))
	if docType == "" || len(docType) > maxDocumentTypeLength {
		return nil, apperrors.NewValidationError("documentType", "documentType is required and must be at most 50 characters")
	}
	name := cleanFileName(in.FileName)
	if name == "" {
		return nil, apperrors.NewValidationError("file", "file name is required")
	}
	if in.Body == nil || in.Size <= 0 {
		return nil, apperrors.NewValidationError("file", "file is empty")
	}
	if in.Size > s.opts.MaxUploadBytes {
		logger.WarnContext(ctx, "Upload rejected: file too large", slog.Int64("size", in.Size))
		return nil, apperrors.NewValidationError("file", "file exceeds the maximum size of "+strconv.FormatInt(s.opts.MaxUploadBytes, 10)+" bytes")
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !allowedContentTypes[contentType] {
		logger.WarnContext(ctx, "Upload rejected: unsupported content type", slog.String("contentType", contentType))
		return nil, apperrors.NewValidationError("file", "only PDF, JPEG and PNG files are accepted")
	}

	doc := &Document{
		CustomerID:   in.CustomerID,
		DocumentType: docType,
		FileName:     name,
		ContentType:  contentType,
		SizeBytes:    in.Size,
		StoragePath:  fmt.Sprintf("customers/%d/%s-%s", in.CustomerID, uuid.NewString(), name),
		UploadedBy:   actor.UserID,
		UploadedAt:   s.now(),
	}

	body := io.MultiReader(bytes.NewReader(head), in.Body)
	if err := s.blobs.Put(ctx, doc.StoragePath, contentType, body); err != nil {
		logger.ErrorContext(ctx, "Failed to store document blob", slog.Any("error", err))
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if err := s.repo.Insert(ctx, doc); err != nil {
		logger.ErrorContext(ctx, "Failed to insert document metadata, removing blob", slog.Any("error", err))
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), doc.StoragePath); delErr != nil {
			logger.ErrorContext(ctx, "Failed to remove orphaned blob", slog.String("path", doc.StoragePath), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	monitoring.RecordDocumentUploaded()
	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			Action:     audit.ActionDocumentUploaded,
			EntityType: audit.EntityDocument,
			EntityID:   strconv.FormatInt(doc.ID, 10),
			Details: map[string]any{
				"customerId":   doc.CustomerID,
				"documentType": doc.DocumentType,
				"contentType":  doc.ContentType,
				"sizeBytes":    doc.SizeBytes,
			},
		})
	}

	logger.InfoContext(ctx, "Document uploaded", slog.Int64("documentID", doc.ID))
	return doc, nil
}

func (s *service) List(ctx context.Context, actor identity.Identity, customerID int64) ([]*Document, error) {
	if err := s.access.Authorize(ctx, actor, customerID); err != nil {
		return nil, err
	}
	docs, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing documents", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list documents for customer %d: %w", customerID, err)
	}
	return docs, nil
}

func (s *service) SignedURL(ctx context.Context, actor identity.Identity, documentID int64) (*SignedURL, error) {
	logger := s.logger.With(slog.Int64("documentID", documentID))

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		logger.ErrorContext(ctx, "Repository error finding document", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get document %d: %w", documentID, err)
	}
	if err := s.access.Authorize(ctx, actor, doc.CustomerID); err != nil {
		return nil, err
	}

	url, err := s.blobs.SignedURL(ctx, doc.StoragePath, s.opts.SignedURLTTL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to sign document URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to sign url for document %d: %w", documentID, err)
	}
	return &SignedURL{URL: url, ExpiresAt: s.now().Add(s.opts.SignedURLTTL)}, nil
}

// cleanFileName strips directories and characters that would break the object path.
func cleanFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
	if len(name) > maxFileNameLength {
		// Keep the tail so the extension survives; never cut inside a rune.
		cut := len(name) - maxFileNameLength
		for cut < len(name) && !utf8.RuneStart(name[cut]) {
			cut++
		}
		name = name[cut:]
	}
	return name
}
