package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/event"
	"kyc-onboarding/internal/infrastructure/monitoring"
	"kyc-onboarding/internal/pkg/apperrors"
)

const customerNotFound = "Customer not found by repository"

// PasswordChanger verifies the current password before replacing it.
type PasswordChanger interface {
	VerifyPassword(ctx context.Context, userID, password string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// UpdateInput is a profile patch plus optional password change fields,
// which are consumed here and never reach the customer record.
type UpdateInput struct {
	Profile         Profile
	CurrentPassword string
	NewPassword     string
}

type ApprovalResult struct {
	Customer *Customer
	Reviews  *review.BackfillResult
}

type CustomerService interface {
	CreateForUser(ctx context.Context, userID, email, fullName string) (*Customer, error)
	Submit(ctx context.Context, actor identity.Identity, id int64) (*Customer, error)
	Update(ctx context.Context, actor identity.Identity, id int64, in UpdateInput) (*Customer, error)
	Approve(ctx context.Context, actor identity.Identity, id int64) (*ApprovalResult, error)
	Reject(ctx context.Context, actor identity.Identity, id int64, reason string) (*Customer, error)
	List(ctx context.Context, f ListFilter) (*ListResult, error)
	Get(ctx context.Context, actor identity.Identity, id int64) (*Customer, error)
	GetForUser(ctx context.Context, actor identity.Identity) (*Customer, error)
	CalculateRiskScore(ctx context.Context, actor identity.Identity, id int64) (*risk.Score, error)
	GetRiskScore(ctx context.Context, id int64) (*risk.Score, error)
	// Authorize returns nil when actor may access the customer's record.
	Authorize(ctx context.Context, actor identity.Identity, id int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo      Repository
	riskRepo  risk.Repository
	scheduler review.Scheduler
	passwords PasswordChanger
	audit     audit.Recorder
	pub       event.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

type Dependencies struct {
	Repo      Repository
	RiskRepo  risk.Repository
	Scheduler review.Scheduler
	Passwords PasswordChanger
	Audit     audit.Recorder
	Publisher event.Publisher
}

func NewCustomerService(deps Dependencies, logger *slog.Logger) CustomerService {
	if deps.Repo == nil {
		panic("customer repository cannot be nil")
	}
	if deps.RiskRepo == nil {
		panic("risk repository cannot be nil")
	}
	if deps.Scheduler == nil {
		panic("review scheduler cannot be nil")
	}
	if deps.Audit == nil {
		panic("audit recorder cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if deps.Publisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will only be logged")
		deps.Publisher = event.NewLogPublisher(logger)
	}

	return &customerService{
		repo:      deps.Repo,
		riskRepo:  deps.RiskRepo,
		scheduler: deps.Scheduler,
		passwords: deps.Passwords,
		audit:     deps.Audit,
		pub:       deps.Publisher,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateForUser(ctx context.Context, userID, email, fullName string) (*Customer, error) {
	logger := s.logger.With(slog.String("userID", userID))
	logger.InfoContext(ctx, "Attempting to create customer for user")

	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("userId", "user id is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}

	cust := NewCustomer(userID, email, fullName)
	if err := s.repo.Create(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Customer already exists for user")
			return nil, fmt.Errorf("%w: customer already exists for user", apperrors.ErrConflict)
		}
		logger.ErrorContext(ctx, "Repository failed to create customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	logger.InfoContext(ctx, "Customer created", slog.Int64("customerID", cust.ID))
	s.recordAudit(ctx, userID, audit.ActionCustomerRegistered, cust, nil)
	s.publish(ctx, event.RoutingKeyCustomerRegistered, cust, userID)
	return cust, nil
}

func (s *customerService) Submit(ctx context.Context, actor identity.Identity, id int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to submit customer application")

	cust, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cust.OwnedBy(actor.UserID) {
		logger.WarnContext(ctx, "Submit attempted by non-owner", slog.String("actorID", actor.UserID))
		return nil, apperrors.Forbidden("only the owning customer can submit an application")
	}

	cust.Submit(s.now())
	if err := s.save(ctx, cust); err != nil {
		return nil, err
	}

	if _, err := s.scoreAndStore(ctx, cust); err != nil {
		logger.WarnContext(ctx, "Application submitted but risk score could not be stored", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "Customer application submitted")
	s.recordAudit(ctx, actor.UserID, audit.ActionCustomerSubmitted, cust, nil)
	s.publish(ctx, event.RoutingKeyCustomerSubmitted, cust, actor.UserID)
	return cust, nil
}

func (s *customerService) Update(ctx context.Context, actor identity.Identity, id int64, in UpdateInput) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to update customer")

	cust, err := s.authorizedLoad(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// The current password is checked before anything is written and the new
	// one is committed last, so a failed save never leaves a changed password.
	changingPassword := in.NewPassword != "" || in.CurrentPassword != ""
	if changingPassword {
		if err := s.verifyPassword(ctx, cust, in); err != nil {
			return nil, err
		}
	}

	if cust.ApplyProfile(in.Profile, s.now()) {
		if err := s.save(ctx, cust); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Customer updated")
		s.recordAudit(ctx, actor.UserID, audit.ActionCustomerUpdated, cust, nil)
		s.publish(ctx, event.RoutingKeyCustomerUpdated, cust, actor.UserID)
	} else {
		logger.InfoContext(ctx, "No profile change needed, skipping save")
	}

	if changingPassword {
		if err := s.passwords.ChangePassword(ctx, cust.UserID, in.CurrentPassword, in.NewPassword); err != nil {
			logger.ErrorContext(ctx, "Password change failed after verification", slog.Any("error", err))
			return nil, err
		}
		s.recordAudit(ctx, actor.UserID, audit.ActionPasswordChanged, cust, nil)
	}
	return cust, nil
}

func (s *customerService) verifyPassword(ctx context.Context, cust *Customer, in UpdateInput) error {
	if in.NewPassword == "" {
		return apperrors.NewValidationError("newPassword", "new password is required when changing password")
	}
	if in.CurrentPassword == "" {
		return apperrors.NewValidationError("currentPassword", "current password is required to change password")
	}
	if s.passwords == nil {
		s.logger.ErrorContext(ctx, "Password change requested but no credential store is configured")
		return fmt.Errorf("%w: password change unavailable", apperrors.ErrInternalServer)
	}
	if err := s.passwords.VerifyPassword(ctx, cust.UserID, in.CurrentPassword); err != nil {
		s.logger.WarnContext(ctx, "Password change rejected", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *customerService) Approve(ctx context.Context, actor identity.Identity, id int64) (*ApprovalResult, error) {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to approve customer")

	if !actor.IsEmployee() {
		return nil, apperrors.Forbidden("only employees can approve applications")
	}
	cust, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	cust.Approve(actor.UserID, s.now())
	if err := s.save(ctx, cust); err != nil {
		return nil, err
	}
	monitoring.RecordDecision(string(StatusApproved))
	logger.InfoContext(ctx, "Customer approved, ensuring compliance review")

	result := &ApprovalResult{Customer: cust}
	reviews, err := s.scheduler.EnsureAfterApproval(ctx, cust.ID, cust.DecisionDate)
	if err != nil {
		// The approval stands; the scheduled backfill run creates the missing review.
		logger.ErrorContext(ctx, "Customer approved but review scheduling failed", slog.Any("error", err))
	} else {
		result.Reviews = reviews
	}

	details := map[string]any{}
	if reviews != nil {
		details["reviewCreated"] = reviews.CustomerReviewCreated
		details["backfilled"] = reviews.Created
	}
	s.recordAudit(ctx, actor.UserID, audit.ActionCustomerApproved, cust, details)
	s.publish(ctx, event.RoutingKeyCustomerApproved, cust, actor.UserID)
	return result, nil
}

func (s *customerService) Reject(ctx context.Context, actor identity.Identity, id int64, reason string) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to reject customer")

	if !actor.IsEmployee() {
		return nil, apperrors.Forbidden("only employees can reject applications")
	}
	if len([]rune(strings.TrimSpace(reason))) < MinRejectionReasonLength {
		logger.WarnContext(ctx, "Validation failed: rejection reason too short")
		return nil, apperrors.NewValidationError("reason", "rejection reason must be at least 10 characters")
	}

	cust, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cust.Reject(actor.UserID, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cust); err != nil {
		return nil, err
	}
	monitoring.RecordDecision(string(StatusRejected))

	logger.InfoContext(ctx, "Customer rejected")
	s.recordAudit(ctx, actor.UserID, audit.ActionCustomerRejected, cust, map[string]any{"reason": *cust.RejectionReason})
	s.publish(ctx, event.RoutingKeyCustomerRejected, cust, actor.UserID)
	return cust, nil
}

func (s *customerService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	f.Normalize()
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, apperrors.NewValidationError("to", "to must not be before from")
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Listed customers", slog.Int("count", len(items)), slog.Int("total", total))
	return &ListResult{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *customerService) Get(ctx context.Context, actor identity.Identity, id int64) (*Customer, error) {
	return s.authorizedLoad(ctx, actor, id)
}

func (s *customerService) GetForUser(ctx context.Context, actor identity.Identity) (*Customer, error) {
	if actor.UserID == "" {
		return nil, apperrors.Unauthorized("missing identity")
	}
	cust, err := s.repo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "No customer record for user", slog.String("userID", actor.UserID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer by user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer for user: %w", err)
	}
	return cust, nil
}

func (s *customerService) Authorize(ctx context.Context, actor identity.Identity, id int64) error {
	_, err := s.authorizedLoad(ctx, actor, id)
	return err
}

func (s *customerService) CalculateRiskScore(ctx context.Context, actor identity.Identity, id int64) (*risk.Score, error) {
	if !actor.IsEmployee() {
		return nil, apperrors.Forbidden("only employees can calculate risk scores")
	}
	cust, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	score, err := s.scoreAndStore(ctx, cust)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor.UserID, audit.ActionRiskScoreCalculated, cust, map[string]any{
		"score": score.Value,
		"level": string(score.Level()),
	})
	return score, nil
}

func (s *customerService) GetRiskScore(ctx context.Context, id int64) (*risk.Score, error) {
	score, err := s.riskRepo.FindByCustomerID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error loading risk score", slog.Int64("customerID", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get risk score for customer %d: %w", id, err)
	}
	return score, nil
}

func (s *customerService) scoreAndStore(ctx context.Context, cust *Customer) (*risk.Score, error) {
	now := s.now()
	res := risk.Calculate(cust.RiskInput(), now)
	score := risk.NewScore(cust.ID, res, now)
	if err := s.riskRepo.Upsert(ctx, score); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to store risk score", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to store risk score for customer %d: %w", cust.ID, err)
	}
	s.logger.InfoContext(ctx, "Risk score stored",
		slog.Int64("customerID", cust.ID),
		slog.Int("score", score.Value),
		slog.String("level", string(score.Level())))
	return score, nil
}

func (s *customerService) authorizedLoad(ctx context.Context, actor identity.Identity, id int64) (*Customer, error) {
	cust, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsEmployee() || cust.OwnedBy(actor.UserID) {
		return cust, nil
	}
	s.logger.WarnContext(ctx, "Customer attempted to access another customer's record",
		slog.Int64("customerID", id),
		slog.String("actorID", actor.UserID))
	return nil, apperrors.Forbidden("access to another customer's record is not allowed")
}

func (s *customerService) load(ctx context.Context, id int64) (*Customer, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("customerId", "customer id must be a positive integer")
	}
	cust, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", id))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Int64("customerID", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return cust, nil
}

func (s *customerService) save(ctx context.Context, cust *Customer) error {
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Customer disappeared before save completed", slog.Int64("customerID", cust.ID))
			return err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save customer", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return fmt.Errorf("failed to save customer %d: %w", cust.ID, err)
	}
	return nil
}

func (s *customerService) recordAudit(ctx context.Context, userID, action string, cust *Customer, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	details["status"] = string(cust.Status)
	s.audit.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: audit.EntityCustomer,
		EntityID:   strconv.FormatInt(cust.ID, 10),
		Details:    details,
	})
}

func (s *customerService) publish(ctx context.Context, routingKey string, cust *Customer, actorID string) {
	evt := event.CustomerEvent{
		Timestamp:  s.now(),
		CustomerID: cust.ID,
		UserID:     cust.UserID,
		Status:     string(cust.Status),
		ActorID:    actorID,
		Reason:     cust.RejectionReason,
	}
	if err := s.pub.PublishCustomerEvent(ctx, routingKey, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer event", slog.String("routingKey", routingKey), slog.Any("error", err))
	}
}
