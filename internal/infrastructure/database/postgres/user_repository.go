package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/pkg/apperrors"
)

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ auth.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With("component", "UserRepository")}
}

func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, u.ID, u.Email, u.PasswordHash, u.Role).Scan(&u.CreatedAt)
	observe("CreateUser", start, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "User already exists")
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert user: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`
	return r.findOne(ctx, "FindUserByEmail", query, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := `SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`
	return r.findOne(ctx, "FindUserByID", query, id)
}

func (r *UserRepository) findOne(ctx context.Context, queryName, query string, arg any) (*auth.User, error) {
	start := time.Now()
	var u auth.User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	observe(queryName, start, err)
	if err != nil {
		if errors.Is(translateDBError(err, r.logger), apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query user", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &u, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	observe("UpdatePasswordHash", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update password hash", slog.String("userID", id), slog.Any("error", err))
		return fmt.Errorf("%w: failed to update password: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	observe("DeleteUser", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete user", slog.String("userID", id), slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete user: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, user likely not found", slog.String("userID", id))
		return apperrors.ErrNotFound
	}
	return nil
}
