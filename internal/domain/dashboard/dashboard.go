package dashboard

import (
	"context"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/risk"
)

const DefaultWindowMonths = 6

// CustomerRow is the slice of a customer the aggregation needs.
type CustomerRow struct {
	ID        int64
	Status    customer.Status
	CreatedAt time.Time
}

type Repository interface {
	CustomersCreatedBetween(ctx context.Context, from, to time.Time) ([]CustomerRow, error)
	// LatestScores returns at most one score per customer, the most recently calculated.
	LatestScores(ctx context.Context, customerIDs []int64) ([]*risk.Score, error)
	CountOverdueReviews(ctx context.Context, now time.Time) (int, error)
}

type Bucket struct {
	Count   int
	Percent float64
}

type Distribution struct {
	Low     Bucket
	Medium  Bucket
	High    Bucket
	Unknown Bucket
}

type Trend struct {
	Period string
	Count  int
}

type Stats struct {
	TotalApplications int
	Pending           int
	Approved          int
	Rejected          int
	Draft             int
	ApprovalRate      float64
	RiskDistribution  Distribution
	RiskDetails       []*risk.Score
	TrendsData        []Trend
	OverdueReviews    int
	From              time.Time
	To                time.Time
}
