package document_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = identity.Identity{UserID: "user-1", Role: identity.RoleCustomer}
	stranger = identity.Identity{UserID: "user-2", Role: identity.RoleCustomer}
	pdfBody  = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	pngBody  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
)

type fixture struct {
	repo   *document.MockRepository
	blobs  *document.MockBlobStore
	access *document.MockAccess
	svc    document.Service
}

func setupTest(opts document.Options) fixture {
	f := fixture{
		repo:   new(document.MockRepository),
		blobs:  new(document.MockBlobStore),
		access: new(document.MockAccess),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = document.NewService(f.repo, f.blobs, f.access, nil, opts, logger)
	return f
}

func upload(body []byte, name string) document.UploadInput {
	return document.UploadInput{
		CustomerID:   7,
		DocumentType: "passport",
		FileName:     name,
		Size:         int64(len(body)),
		Body:         bytes.NewReader(body),
	}
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores blob then metadata", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("Put", ctx, mock.AnythingOfType("string"), document.ContentTypePDF).Return(nil).Once()
		f.repo.On("Insert", ctx, mock.AnythingOfType("*document.Document")).
			Run(func(args mock.Arguments) { args.Get(1).(*document.Document).ID = 11 }).
			Return(nil).Once()

		doc, err := f.svc.Upload(ctx, owner, upload(pdfBody, "my passport.pdf"))

		require.NoError(t, err)
		assert.Equal(t, int64(11), doc.ID)
		assert.Equal(t, "PASSPORT", doc.DocumentType)
		assert.Equal(t, "my_passport.pdf", doc.FileName)
		assert.Equal(t, document.ContentTypePDF, doc.ContentType)
		assert.Equal(t, "user-1", doc.UploadedBy)
		assert.True(t, strings.HasPrefix(doc.StoragePath, "customers/7/"))
		assert.True(t, strings.HasSuffix(doc.StoragePath, "-my_passport.pdf"))
		assert.Equal(t, pdfBody, f.blobs.Stored[doc.StoragePath], "sniffed bytes must be written back")
		f.blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Accepts PNG and strips directories from name", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("Put", ctx, mock.Anything, document.ContentTypePNG).Return(nil).Once()
		f.repo.On("Insert", ctx, mock.Anything).Return(nil).Once()

		doc, err := f.svc.Upload(ctx, owner, upload(pngBody, "../../etc/selfie.png"))

		require.NoError(t, err)
		assert.Equal(t, "selfie.png", doc.FileName)
	})

	t.Run("Long non-ASCII name is shortened on a rune boundary", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("Put", ctx, mock.AnythingOfType("string"), document.ContentTypePDF).Return(nil).Once()
		f.repo.On("Insert", ctx, mock.Anything).Return(nil).Once()

		doc, err := f.svc.Upload(ctx, owner, upload(pdfBody, strings.Repeat("é", 150)+"x.pdf"))

		require.NoError(t, err)
		assert.True(t, utf8.ValidString(doc.FileName), "file name %q is not valid UTF-8", doc.FileName)
		assert.True(t, utf8.ValidString(doc.StoragePath))
		assert.LessOrEqual(t, len(doc.FileName), 200)
		assert.True(t, strings.HasSuffix(doc.FileName, "éx.pdf"))
		assert.Equal(t, strings.Repeat("é", 97)+"x.pdf", doc.FileName)
	})

	t.Run("Rejects unsupported content", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()

		_, err := f.svc.Upload(ctx, owner, upload([]byte("#!/bin/sh\necho hi\n"), "run.pdf"))

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejects oversized files", func(t *testing.T) {
		f := setupTest(document.Options{MaxUploadBytes: 16})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()

		_, err := f.svc.Upload(ctx, owner, upload(pdfBody, "big.pdf"))

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Requires a document type", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		in := upload(pdfBody, "a.pdf")
		in.DocumentType = "  "

		_, err := f.svc.Upload(ctx, owner, in)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Stranger is forbidden", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, stranger, int64(7)).Return(apperrors.Forbidden("not yours")).Once()

		_, err := f.svc.Upload(ctx, stranger, upload(pdfBody, "a.pdf"))

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Failed insert removes the blob", func(t *testing.T) {
		f := setupTest(document.Options{})
		dbErr := errors.New("insert failed")
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("Put", ctx, mock.Anything, document.ContentTypePDF).Return(nil).Once()
		f.repo.On("Insert", ctx, mock.Anything).Return(dbErr).Once()
		f.blobs.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

		_, err := f.svc.Upload(ctx, owner, upload(pdfBody, "a.pdf"))

		assert.ErrorIs(t, err, dbErr)
		f.blobs.AssertExpectations(t)
	})

	t.Run("Blob failure skips insert", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("Put", ctx, mock.Anything, document.ContentTypePDF).Return(errors.New("gcs down")).Once()

		_, err := f.svc.Upload(ctx, owner, upload(pdfBody, "a.pdf"))

		assert.Error(t, err)
		f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := setupTest(document.Options{})
	docs := []*document.Document{{ID: 1, CustomerID: 7}}
	f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
	f.repo.On("FindByCustomer", ctx, int64(7)).Return(docs, nil).Once()

	got, err := f.svc.List(ctx, owner, 7)

	require.NoError(t, err)
	assert.Equal(t, docs, got)
}

func TestService_SignedURL(t *testing.T) {
	ctx := context.Background()
	doc := &document.Document{ID: 3, CustomerID: 7, StoragePath: "customers/7/x-a.pdf"}

	t.Run("Signs with configured ttl", func(t *testing.T) {
		f := setupTest(document.Options{SignedURLTTL: 5 * time.Minute})
		f.repo.On("FindByID", ctx, int64(3)).Return(doc, nil).Once()
		f.access.On("Authorize", ctx, owner, int64(7)).Return(nil).Once()
		f.blobs.On("SignedURL", ctx, doc.StoragePath, 5*time.Minute).Return("https://signed", nil).Once()

		before := time.Now()
		res, err := f.svc.SignedURL(ctx, owner, 3)

		require.NoError(t, err)
		assert.Equal(t, "https://signed", res.URL)
		assert.WithinDuration(t, before.Add(5*time.Minute), res.ExpiresAt, 5*time.Second)
	})

	t.Run("Missing document", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.repo.On("FindByID", ctx, int64(3)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := f.svc.SignedURL(ctx, owner, 3)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Stranger is forbidden", func(t *testing.T) {
		f := setupTest(document.Options{})
		f.repo.On("FindByID", ctx, int64(3)).Return(doc, nil).Once()
		f.access.On("Authorize", ctx, stranger, int64(7)).Return(apperrors.Forbidden("not yours")).Once()

		_, err := f.svc.SignedURL(ctx, stranger, 3)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.blobs.AssertNotCalled(t, "SignedURL", mock.Anything, mock.Anything, mock.Anything)
	})
}
