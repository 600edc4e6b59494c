package review

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusCompleted Status = "COMPLETED"
)

// ReviewIntervalMonths is the gap between a decision and its first compliance review.
const ReviewIntervalMonths = 6

type Review struct {
	ID             int64
	CustomerID     int64
	ScheduledDate  time.Time
	CompletedDate  *time.Time
	Status         Status
	Notes          *string
	NextReviewDate *time.Time
	CompletedBy    *string
	CreatedAt      time.Time
}

// Scheduled is a review joined with the identity of its customer.
type Scheduled struct {
	Review
	CustomerName  string
	CustomerEmail string
}

// Candidate is an approved customer that has never had a review.
type Candidate struct {
	CustomerID   int64
	DecisionDate *time.Time
}

type Completion struct {
	CompletedDate  *time.Time
	Notes          *string
	NextReviewDate *time.Time
	CompletedBy    string
}

type DateRange struct {
	From time.Time
	To   *time.Time
}

type Repository interface {
	// CreateIfAbsent inserts a DRAFT review unless the customer already has any review.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, customerID int64, scheduled time.Time) (bool, error)
	FindApprovedWithoutReviews(ctx context.Context) ([]Candidate, error)
	FindByID(ctx context.Context, id int64) (*Review, error)
	// Complete marks the review COMPLETED and, when successor is non-nil, inserts it
	// in the same transaction.
	Complete(ctx context.Context, rev *Review, successor *Review) error
	FindUpcoming(ctx context.Context, r DateRange) ([]*Scheduled, error)
	FindOverdue(ctx context.Context, before time.Time) ([]*Scheduled, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]*Review, error)
	FindHistory(ctx context.Context, customerID int64) ([]*Review, error)
}

// FirstReviewDate is decision + 6 calendar months, or now + 6 months without a decision.
func FirstReviewDate(decision *time.Time, now time.Time) time.Time {
	base := now
	if decision != nil && !decision.IsZero() {
		base = *decision
	}
	return DateOnly(base.AddDate(0, ReviewIntervalMonths, 0))
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
