package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const reviewColumns = `r.id, r.customer_id, r.scheduled_date, r.completed_date, r.status,
               r.notes, r.next_review_date, r.completed_by, r.created_at`

type ReviewRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ review.Repository = (*ReviewRepository)(nil)

func NewReviewRepository(db DBPool, logger *slog.Logger) *ReviewRepository {
	return &ReviewRepository{db: db, logger: logger.With("component", "ReviewRepository")}
}

func scanReview(row rowScanner, rev *review.Review, extra ...any) error {
	dest := []any{
		&rev.ID, &rev.CustomerID, &rev.ScheduledDate, &rev.CompletedDate, &rev.Status,
		&rev.Notes, &rev.NextReviewDate, &rev.CompletedBy, &rev.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// CreateIfAbsent writes nothing when the customer has any review, and the partial
// unique index on open reviews absorbs a concurrent insert for the same customer.
func (r *ReviewRepository) CreateIfAbsent(ctx context.Context, customerID int64, scheduled time.Time) (bool, error) {
	query := `
        INSERT INTO reviews (customer_id, scheduled_date, status, created_at)
        SELECT $1, $2, 'DRAFT', NOW()
        WHERE NOT EXISTS (SELECT 1 FROM reviews WHERE customer_id = $1)
        ON CONFLICT DO NOTHING
        RETURNING id`

	start := time.Now()
	var id int64
	err := r.db.QueryRow(ctx, query, customerID, scheduled).Scan(&id)
	observe("CreateReviewIfAbsent", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.ErrorContext(ctx, "Failed to insert review", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to insert review: %w", apperrors.ErrDatabase, err)
	}
	r.logger.InfoContext(ctx, "Review created in DB", slog.Int64("reviewID", id), slog.Int64("customerID", customerID))
	return true, nil
}

func (r *ReviewRepository) FindApprovedWithoutReviews(ctx context.Context) ([]review.Candidate, error) {
	query := `
        SELECT c.id, c.decision_date
        FROM customers c
        WHERE c.status = 'APPROVED'
          AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.customer_id = c.id)
        ORDER BY c.id`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	observe("FindApprovedWithoutReviews", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query approved customers without reviews", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query review candidates: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	candidates := make([]review.Candidate, 0)
	for rows.Next() {
		var c review.Candidate
		if err := rows.Scan(&c.CustomerID, &c.DecisionDate); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan review candidate", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning review candidate: %w", apperrors.ErrDatabase, err)
		}
		candidates = append(candidates, c)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating review candidates", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating review candidates: %w", apperrors.ErrDatabase, err)
	}
	return candidates, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.id = $1`

	start := time.Now()
	var rev review.Review
	err := scanReview(r.db.QueryRow(ctx, query, id), &rev)
	observe("FindReviewByID", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Review not found", slog.Int64("reviewID", id))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get review by ID", slog.Int64("reviewID", id), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &rev, nil
}

func (r *ReviewRepository) Complete(ctx context.Context, rev *review.Review, successor *review.Review) error {
	logger := r.logger.With(slog.Int64("reviewID", rev.ID))

	return withTx(ctx, r.db, logger, func(tx pgx.Tx) error {
		updateSQL := `
            UPDATE reviews
            SET status = $1, completed_date = $2, notes = $3, next_review_date = $4, completed_by = $5
            WHERE id = $6 AND status = 'DRAFT'`

		cmdTag, err := tx.Exec(ctx, updateSQL,
			rev.Status, rev.CompletedDate, rev.Notes, rev.NextReviewDate, rev.CompletedBy, rev.ID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to update review", slog.Any("error", err))
			return fmt.Errorf("%w: failed to complete review: %w", apperrors.ErrDatabase, err)
		}
		if cmdTag.RowsAffected() != 1 {
			logger.WarnContext(ctx, "Review completion affected zero rows, already completed or removed")
			return review.ErrAlreadyCompleted
		}

		if successor == nil {
			return nil
		}
		insertSQL := `
            INSERT INTO reviews (customer_id, scheduled_date, status, created_at)
            VALUES ($1, $2, $3, NOW())
            RETURNING id, created_at`

		err = tx.QueryRow(ctx, insertSQL, successor.CustomerID, successor.ScheduledDate, successor.Status).
			Scan(&successor.ID, &successor.CreatedAt)
		if err != nil {
			translated := translateDBError(err, logger)
			if errors.Is(translated, apperrors.ErrAlreadyExists) {
				return translated
			}
			logger.ErrorContext(ctx, "Failed to insert successor review", slog.Any("error", err))
			return fmt.Errorf("%w: failed to insert successor review: %w", apperrors.ErrDatabase, err)
		}
		logger.InfoContext(ctx, "Successor review created in DB", slog.Int64("successorID", successor.ID))
		return nil
	})
}

func (r *ReviewRepository) FindUpcoming(ctx context.Context, dr review.DateRange) ([]*review.Scheduled, error) {
	query := `SELECT ` + reviewColumns + `, c.full_name, c.email
        FROM reviews r
        JOIN customers c ON c.id = r.customer_id
        WHERE r.status = 'DRAFT' AND r.scheduled_date >= $1`
	args := []any{dr.From}
	if dr.To != nil {
		query += ` AND r.scheduled_date <= $2`
		args = append(args, *dr.To)
	}
	query += ` ORDER BY r.scheduled_date ASC, r.id ASC`

	return r.findScheduled(ctx, "FindUpcomingReviews", query, args...)
}

func (r *ReviewRepository) FindOverdue(ctx context.Context, before time.Time) ([]*review.Scheduled, error) {
	query := `SELECT ` + reviewColumns + `, c.full_name, c.email
        FROM reviews r
        JOIN customers c ON c.id = r.customer_id
        WHERE r.status = 'DRAFT' AND r.scheduled_date < $1
        ORDER BY r.scheduled_date ASC, r.id ASC`

	return r.findScheduled(ctx, "FindOverdueReviews", query, before)
}

func (r *ReviewRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + `
        FROM reviews r
        WHERE r.customer_id = $1
        ORDER BY r.scheduled_date DESC, r.id DESC`

	return r.findReviews(ctx, "FindReviewsByCustomer", query, customerID)
}

// FindHistory returns past reviews that carry notes, newest completion first.
func (r *ReviewRepository) FindHistory(ctx context.Context, customerID int64) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + `
        FROM reviews r
        WHERE r.customer_id = $1 AND r.notes IS NOT NULL
        ORDER BY r.completed_date DESC NULLS LAST, r.id DESC`

	return r.findReviews(ctx, "FindReviewHistory", query, customerID)
}

func (r *ReviewRepository) findReviews(ctx context.Context, queryName, query string, args ...any) ([]*review.Review, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reviews", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	reviews := make([]*review.Review, 0)
	for rows.Next() {
		var rev review.Review
		if err := scanReview(rows, &rev); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan review row", slog.String("query", queryName), slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		reviews = append(reviews, &rev)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating review rows", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return reviews, nil
}

func (r *ReviewRepository) findScheduled(ctx context.Context, queryName, query string, args ...any) ([]*review.Scheduled, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query scheduled reviews", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	reviews := make([]*review.Scheduled, 0)
	for rows.Next() {
		var s review.Scheduled
		if err := scanReview(rows, &s.Review, &s.CustomerName, &s.CustomerEmail); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan scheduled review row", slog.String("query", queryName), slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		reviews = append(reviews, &s)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating scheduled review rows", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return reviews, nil
}
