package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/pkg/apperrors"
)

type AuditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ audit.Repository = (*AuditRepository)(nil)

func NewAuditRepository(db DBPool, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger.With("component", "AuditRepository")}
}

func (r *AuditRepository) Insert(ctx context.Context, e *audit.Entry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("%w: audit details are not serializable: %w", apperrors.ErrInvalidArgument, err)
	}

	query := `
        INSERT INTO audit_logs (user_id, action, entity_type, entity_id, details, ip_address, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	start := time.Now()
	err = r.db.QueryRow(ctx, query,
		nullable(e.UserID), e.Action, e.EntityType, e.EntityID, details, nullable(e.IPAddress), createdAt,
	).Scan(&e.ID)
	observe("InsertAuditLog", start, err)
	if err != nil {
		return fmt.Errorf("%w: failed to insert audit log: %w", apperrors.ErrDatabase, err)
	}
	e.CreatedAt = createdAt
	return nil
}

func (r *AuditRepository) FindByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*audit.Entry, error) {
	query := `
        SELECT id, COALESCE(user_id, ''), action, entity_type, entity_id, details,
               COALESCE(ip_address, ''), created_at
        FROM audit_logs
        WHERE entity_type = $1 AND entity_id = $2
        ORDER BY created_at DESC, id DESC
        LIMIT $3`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, entityType, entityID, limit)
	observe("FindAuditLogs", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query audit logs", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0)
	for rows.Next() {
		var (
			e       audit.Entry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &details, &e.IPAddress, &e.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan audit row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				r.logger.WarnContext(ctx, "Audit details are not valid JSON", slog.Int64("auditID", e.ID), slog.Any("error", err))
			}
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating audit rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return entries, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
