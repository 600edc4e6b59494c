package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/pkg/apperrors"
)

const documentColumns = `id, customer_id, document_type, file_name, content_type, size_bytes,
               storage_path, uploaded_by, uploaded_at`

type DocumentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ document.Repository = (*DocumentRepository)(nil)

func NewDocumentRepository(db DBPool, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger.With("component", "DocumentRepository")}
}

func scanDocument(row rowScanner, d *document.Document) error {
	return row.Scan(&d.ID, &d.CustomerID, &d.DocumentType, &d.FileName, &d.ContentType, &d.SizeBytes,
		&d.StoragePath, &d.UploadedBy, &d.UploadedAt)
}

func (r *DocumentRepository) Insert(ctx context.Context, d *document.Document) error {
	query := `
        INSERT INTO documents (customer_id, document_type, file_name, content_type, size_bytes,
            storage_path, uploaded_by, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		d.CustomerID, d.DocumentType, d.FileName, d.ContentType, d.SizeBytes,
		d.StoragePath, d.UploadedBy, d.UploadedAt,
	).Scan(&d.ID)
	observe("InsertDocument", start, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert document", slog.Int64("customerID", d.CustomerID), slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert document: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id int64) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	start := time.Now()
	var d document.Document
	err := scanDocument(r.db.QueryRow(ctx, query, id), &d)
	observe("FindDocumentByID", start, err)
	if err != nil {
		if errors.Is(translateDBError(err, r.logger), apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get document", slog.Int64("documentID", id), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &d, nil
}

func (r *DocumentRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*document.Document, error) {
	query := `SELECT ` + documentColumns + `
        FROM documents
        WHERE customer_id = $1
        ORDER BY uploaded_at DESC, id DESC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	observe("FindDocumentsByCustomer", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query documents", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	docs := make([]*document.Document, 0)
	for rows.Next() {
		var d document.Document
		if err := scanDocument(rows, &d); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan document row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		docs = append(docs, &d)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating document rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return docs, nil
}
