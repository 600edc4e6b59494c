package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kyc-onboarding/internal/event"
	"kyc-onboarding/internal/infrastructure/monitoring"
	"kyc-onboarding/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

var ErrAlreadyCompleted = fmt.Errorf("%w: review already completed", apperrors.ErrConflict)

// BackfillResult reports what a scheduling pass wrote.
type BackfillResult struct {
	CustomerReviewCreated bool `json:"customerReviewCreated"`
	Scanned               int  `json:"scanned"`
	Created               int  `json:"created"`
	Failed                int  `json:"failed"`
}

type Scheduler interface {
	// EnsureAfterApproval creates the approved customer's first review when missing,
	// then backfills every other approved customer that has none.
	EnsureAfterApproval(ctx context.Context, customerID int64, decisionDate *time.Time) (*BackfillResult, error)
	Backfill(ctx context.Context) (*BackfillResult, error)
	Complete(ctx context.Context, reviewID int64, c Completion) (*Review, *Review, error)
	ListUpcoming(ctx context.Context, from, to *time.Time) ([]*Scheduled, error)
	ListOverdue(ctx context.Context) ([]*Scheduled, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]*Review, error)
	ListHistory(ctx context.Context, customerID int64) ([]*Review, error)
}

var _ Scheduler = (*scheduler)(nil)

type scheduler struct {
	repo   Repository
	pub    event.Publisher
	now    func() time.Time
	logger *slog.Logger
}

func NewScheduler(repo Repository, pub event.Publisher, logger *slog.Logger) Scheduler {
	if repo == nil {
		panic("review repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewScheduler, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewLogPublisher(logger)
	}
	return &scheduler{
		repo:   repo,
		pub:    pub,
		now:    time.Now,
		logger: logger.With(slog.String("component", "reviewScheduler")),
	}
}

func (s *scheduler) EnsureAfterApproval(ctx context.Context, customerID int64, decisionDate *time.Time) (*BackfillResult, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Ensuring review exists for approved customer")

	scheduled := FirstReviewDate(decisionDate, s.now())
	created, err := s.repo.CreateIfAbsent(ctx, customerID, scheduled)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create review for approved customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create review for customer %d: %w", customerID, err)
	}
	if created {
		monitoring.RecordReviewsCreated(monitoring.TriggerApproval, 1)
		s.publishScheduled(ctx, customerID, scheduled, monitoring.TriggerApproval)
		logger.InfoContext(ctx, "Review scheduled for approved customer", slog.String("scheduledDate", scheduled.Format(dateLayout)))
	} else {
		logger.InfoContext(ctx, "Customer already has a review, skipping")
	}

	res, err := s.backfill(ctx, customerID)
	if err != nil {
		return nil, err
	}
	res.CustomerReviewCreated = created
	return res, nil
}

func (s *scheduler) Backfill(ctx context.Context) (*BackfillResult, error) {
	return s.backfill(ctx, 0)
}

func (s *scheduler) backfill(ctx context.Context, skipID int64) (*BackfillResult, error) {
	startTime := time.Now()
	s.logger.InfoContext(ctx, "Starting review backfill scan")

	candidates, err := s.repo.FindApprovedWithoutReviews(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load approved customers without reviews", slog.Any("error", err))
		return nil, fmt.Errorf("failed to scan approved customers: %w", err)
	}

	res := &BackfillResult{}
	now := s.now()
	for _, c := range candidates {
		if c.CustomerID == skipID {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.WarnContext(ctx, "Backfill interrupted", slog.Any("error", err), slog.Int("created", res.Created))
			return res, err
		}
		res.Scanned++

		scheduled := FirstReviewDate(c.DecisionDate, now)
		created, err := s.repo.CreateIfAbsent(ctx, c.CustomerID, scheduled)
		if err != nil {
			res.Failed++
			s.logger.ErrorContext(ctx, "Failed to backfill review", slog.Int64("customerID", c.CustomerID), slog.Any("error", err))
			continue
		}
		if created {
			res.Created++
			s.publishScheduled(ctx, c.CustomerID, scheduled, monitoring.TriggerBackfill)
		}
	}
	monitoring.RecordReviewsCreated(monitoring.TriggerBackfill, res.Created)

	s.logger.InfoContext(ctx, "Review backfill scan finished",
		slog.Int("scanned", res.Scanned),
		slog.Int("created", res.Created),
		slog.Int("failed", res.Failed),
		slog.Duration("duration", time.Since(startTime)))
	return res, nil
}

func (s *scheduler) Complete(ctx context.Context, reviewID int64, c Completion) (*Review, *Review, error) {
	logger := s.logger.With(slog.Int64("reviewID", reviewID))
	logger.InfoContext(ctx, "Attempting to complete review")

	if c.CompletedDate == nil || c.CompletedDate.IsZero() {
		logger.WarnContext(ctx, "Validation failed: completedDate is missing")
		return nil, nil, apperrors.NewValidationError("completedDate", "completedDate is required")
	}
	if c.NextReviewDate != nil && !c.NextReviewDate.IsZero() && !DateOnly(*c.NextReviewDate).After(DateOnly(*c.CompletedDate)) {
		logger.WarnContext(ctx, "Validation failed: nextReviewDate is not after completedDate")
		return nil, nil, apperrors.NewValidationError("nextReviewDate", "nextReviewDate must be after completedDate")
	}

	rev, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Review not found")
			return nil, nil, err
		}
		logger.ErrorContext(ctx, "Repository error finding review", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to get review %d: %w", reviewID, err)
	}
	if rev.Status == StatusCompleted {
		logger.WarnContext(ctx, "Review is already completed")
		return nil, nil, ErrAlreadyCompleted
	}

	completed := DateOnly(*c.CompletedDate)
	rev.Status = StatusCompleted
	rev.CompletedDate = &completed
	rev.Notes = c.Notes
	if c.CompletedBy != "" {
		by := c.CompletedBy
		rev.CompletedBy = &by
	}

	var successor *Review
	if c.NextReviewDate != nil && !c.NextReviewDate.IsZero() {
		next := DateOnly(*c.NextReviewDate)
		rev.NextReviewDate = &next
		successor = &Review{
			CustomerID:    rev.CustomerID,
			ScheduledDate: next,
			Status:        StatusDraft,
		}
	}

	if err := s.repo.Complete(ctx, rev, successor); err != nil {
		logger.ErrorContext(ctx, "Repository failed to complete review", slog.Any("error", err))
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to complete review %d: %w", reviewID, err)
	}

	s.publishReview(ctx, event.RoutingKeyReviewCompleted, rev, "")
	if successor != nil {
		monitoring.RecordReviewsCreated(monitoring.TriggerCompletion, 1)
		s.publishReview(ctx, event.RoutingKeyReviewScheduled, successor, monitoring.TriggerCompletion)
		logger.InfoContext(ctx, "Successor review scheduled", slog.String("scheduledDate", successor.ScheduledDate.Format(dateLayout)))
	}

	logger.InfoContext(ctx, "Successfully completed review")
	return rev, successor, nil
}

func (s *scheduler) ListUpcoming(ctx context.Context, from, to *time.Time) ([]*Scheduled, error) {
	r := DateRange{From: DateOnly(s.now())}
	if from != nil {
		r.From = DateOnly(*from)
	}
	if to != nil {
		end := DateOnly(*to)
		if end.Before(r.From) {
			return nil, apperrors.NewValidationError("to", "to must not be before from")
		}
		r.To = &end
	}

	reviews, err := s.repo.FindUpcoming(ctx, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing upcoming reviews", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list upcoming reviews: %w", err)
	}
	return reviews, nil
}

func (s *scheduler) ListOverdue(ctx context.Context) ([]*Scheduled, error) {
	reviews, err := s.repo.FindOverdue(ctx, DateOnly(s.now()))
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing overdue reviews", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list overdue reviews: %w", err)
	}
	return reviews, nil
}

func (s *scheduler) ListForCustomer(ctx context.Context, customerID int64) ([]*Review, error) {
	reviews, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customer reviews", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list reviews for customer %d: %w", customerID, err)
	}
	return reviews, nil
}

func (s *scheduler) ListHistory(ctx context.Context, customerID int64) ([]*Review, error) {
	reviews, err := s.repo.FindHistory(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing review history", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list review history for customer %d: %w", customerID, err)
	}
	return reviews, nil
}

func (s *scheduler) publishScheduled(ctx context.Context, customerID int64, scheduled time.Time, trigger string) {
	s.publishReview(ctx, event.RoutingKeyReviewScheduled, &Review{
		CustomerID:    customerID,
		ScheduledDate: scheduled,
		Status:        StatusDraft,
	}, trigger)
}

func (s *scheduler) publishReview(ctx context.Context, routingKey string, rev *Review, trigger string) {
	evt := event.ReviewEvent{
		Timestamp:     s.now(),
		ReviewID:      rev.ID,
		CustomerID:    rev.CustomerID,
		ScheduledDate: rev.ScheduledDate.Format(dateLayout),
		Status:        string(rev.Status),
		Trigger:       trigger,
	}
	if err := s.pub.PublishReviewEvent(ctx, routingKey, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish review event", slog.String("routingKey", routingKey), slog.Any("error", err))
	}
}
