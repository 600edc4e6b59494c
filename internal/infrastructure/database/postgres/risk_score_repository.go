package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"
)

type RiskScoreRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ risk.Repository = (*RiskScoreRepository)(nil)

func NewRiskScoreRepository(db DBPool, logger *slog.Logger) *RiskScoreRepository {
	return &RiskScoreRepository{db: db, logger: logger.With("component", "RiskScoreRepository")}
}

// Upsert keeps one row per customer; a recalculation overwrites the previous one.
func (r *RiskScoreRepository) Upsert(ctx context.Context, score *risk.Score) error {
	query := `
        INSERT INTO risk_scores (customer_id, score, risk_level, age_factor, income_factor,
            employment_factor, account_type_factor, deposit_factor, calculated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (customer_id) DO UPDATE
        SET score = EXCLUDED.score,
            risk_level = EXCLUDED.risk_level,
            age_factor = EXCLUDED.age_factor,
            income_factor = EXCLUDED.income_factor,
            employment_factor = EXCLUDED.employment_factor,
            account_type_factor = EXCLUDED.account_type_factor,
            deposit_factor = EXCLUDED.deposit_factor,
            calculated_at = EXCLUDED.calculated_at`

	start := time.Now()
	_, err := r.db.Exec(ctx, query,
		score.CustomerID, score.Value, string(score.Level()),
		score.Factors.Age, score.Factors.Income, score.Factors.Employment,
		score.Factors.AccountType, score.Factors.Deposit, score.CalculatedAt,
	)
	observe("UpsertRiskScore", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert risk score", slog.Int64("customerID", score.CustomerID), slog.Any("error", err))
		return fmt.Errorf("%w: failed to upsert risk score: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *RiskScoreRepository) FindByCustomerID(ctx context.Context, customerID int64) (*risk.Score, error) {
	query := `
        SELECT customer_id, score, age_factor, income_factor, employment_factor,
               account_type_factor, deposit_factor, calculated_at
        FROM risk_scores
        WHERE customer_id = $1`

	start := time.Now()
	var s risk.Score
	err := scanScore(r.db.QueryRow(ctx, query, customerID), &s)
	observe("FindRiskScore", start, err)
	if err != nil {
		if errors.Is(translateDBError(err, r.logger), apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get risk score", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get risk score: %w", apperrors.ErrDatabase, err)
	}
	return &s, nil
}

func scanScore(row rowScanner, s *risk.Score) error {
	return row.Scan(&s.CustomerID, &s.Value,
		&s.Factors.Age, &s.Factors.Income, &s.Factors.Employment,
		&s.Factors.AccountType, &s.Factors.Deposit, &s.CalculatedAt)
}
