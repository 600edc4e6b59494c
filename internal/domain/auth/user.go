package auth

import (
	"context"
	"time"

	"kyc-onboarding/internal/domain/identity"
)

const MinPasswordLength = 8

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         identity.Role
	CreatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
