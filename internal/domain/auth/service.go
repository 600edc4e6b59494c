package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperrors.Unauthorized("invalid email or password")

// ProfileCreator creates the customer record that belongs to a new user.
type ProfileCreator interface {
	CreateForUser(ctx context.Context, userID, email, fullName string) (*customer.Customer, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type Registration struct {
	User     *User
	Customer *customer.Customer
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Role      identity.Role
}

type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	VerifyPassword(ctx context.Context, userID, password string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// Registrar is separate from Service because it depends on the customer
// service, which itself depends on Service for password changes.
type Registrar interface {
	Register(ctx context.Context, in RegisterInput) (*Registration, error)
}

var (
	_ Service                  = (*service)(nil)
	_ customer.PasswordChanger = (*service)(nil)
	_ Registrar                = (*registrar)(nil)
)

type service struct {
	users  Repository
	tokens *TokenManager
	cost   int
	logger *slog.Logger
}

func NewService(users Repository, tokens *TokenManager, cost int, logger *slog.Logger) Service {
	if users == nil {
		panic("user repository cannot be nil")
	}
	if tokens == nil {
		panic("token manager cannot be nil")
	}
	return &service{
		users:  users,
		tokens: tokens,
		cost:   hashCost(cost),
		logger: defaultLogger(logger, "authService"),
	}
}

type registrar struct {
	users    Repository
	profiles ProfileCreator
	cost     int
	logger   *slog.Logger
}

func NewRegistrar(users Repository, profiles ProfileCreator, cost int, logger *slog.Logger) Registrar {
	if users == nil {
		panic("user repository cannot be nil")
	}
	if profiles == nil {
		panic("profile creator cannot be nil")
	}
	return &registrar{
		users:    users,
		profiles: profiles,
		cost:     hashCost(cost),
		logger:   defaultLogger(logger, "registrar"),
	}
}

func hashCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func defaultLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided, using default stderr handler", slog.String("component", component))
	}
	return logger.With(slog.String("component", component))
}

func (s *registrar) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	logger := s.logger.With(slog.String("email", email))
	logger.InfoContext(ctx, "Attempting to register user")

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to hash password", apperrors.ErrInternalServer)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         identity.RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Registration with existing email")
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
		logger.ErrorContext(ctx, "Repository failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	cust, err := s.profiles.CreateForUser(ctx, user.ID, email, in.FullName)
	if err != nil {
		logger.ErrorContext(ctx, "Customer profile creation failed, removing user", slog.Any("error", err))
		if delErr := s.users.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			logger.ErrorContext(ctx, "Failed to remove user after profile failure",
				slog.String("userID", user.ID),
				slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to create customer profile: %w", err)
	}

	logger.InfoContext(ctx, "User registered", slog.String("userID", user.ID), slog.Int64("customerID", cust.ID))
	return &Registration{User: user, Customer: cust}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}
	if password == "" {
		return nil, apperrors.NewValidationError("password", "password is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Login for unknown email")
			return nil, errInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "Repository error finding user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.WarnContext(ctx, "Login with wrong password", slog.String("userID", user.ID))
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInternalServer, err)
	}

	s.logger.InfoContext(ctx, "User logged in", slog.String("userID", user.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, UserID: user.ID, Role: user.Role}, nil
}

// VerifyPassword checks password against the stored hash without changing anything.
func (s *service) VerifyPassword(ctx context.Context, userID, password string) error {
	_, err := s.verifiedUser(ctx, userID, password)
	return err
}

func (s *service) verifiedUser(ctx context.Context, userID, password string) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.WarnContext(ctx, "Wrong current password", slog.String("userID", userID))
		return nil, apperrors.Forbidden("current password is incorrect")
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("newPassword", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if _, err := s.verifiedUser(ctx, userID, currentPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("%w: failed to hash password", apperrors.ErrInternalServer)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to update password", slog.Any("error", err))
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "Password changed", slog.String("userID", userID))
	return nil
}
