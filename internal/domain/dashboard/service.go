package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const periodLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

type Service interface {
	Stats(ctx context.Context, from, to *time.Time) (*Stats, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	audit  audit.Recorder
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) Service {
	if repo == nil {
		panic("dashboard repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to dashboard.NewService, using default stderr handler")
	}
	return &service{
		repo:   repo,
		audit:  recorder,
		now:    time.Now,
		logger: logger.With(slog.String("component", "dashboardService")),
	}
}

func (s *service) Stats(ctx context.Context, from, to *time.Time) (*Stats, error) {
	now := s.now()
	end := now
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, -DefaultWindowMonths, 0)
	if from != nil {
		start = *from
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("to", "to must not be before from")
	}

	logger := s.logger.With(slog.Time("from", start), slog.Time("to", end))
	logger.InfoContext(ctx, "Aggregating dashboard statistics")

	rows, err := s.repo.CustomersCreatedBetween(ctx, start, end)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load customers for dashboard", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	var (
		scores  []*risk.Score
		overdue int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(ids) == 0 {
			return nil
		}
		var err error
		scores, err = s.repo.LatestScores(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load risk scores: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		overdue, err = s.repo.CountOverdueReviews(gctx, now)
		if err != nil {
			return fmt.Errorf("failed to count overdue reviews: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "Dashboard aggregation failed", slog.Any("error", err))
		return nil, err
	}

	stats := &Stats{
		TotalApplications: len(rows),
		RiskDetails:       latestPerCustomer(scores),
		OverdueReviews:    overdue,
		From:              start,
		To:                end,
	}
	for _, r := range rows {
		switch r.Status {
		case customer.StatusPending:
			stats.Pending++
		case customer.StatusApproved:
			stats.Approved++
		case customer.StatusRejected:
			stats.Rejected++
		case customer.StatusDraft:
			stats.Draft++
		}
	}
	stats.ApprovalRate = ratio(stats.Approved, stats.TotalApplications)
	stats.RiskDistribution = distribute(stats.RiskDetails, stats.TotalApplications)
	stats.TrendsData = monthlyTrend(rows, start, end)

	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			Action:     audit.ActionDashboardViewed,
			EntityType: audit.EntityDashboard,
			EntityID:   "stats",
			Details:    map[string]any{"from": start.Format(time.RFC3339), "to": end.Format(time.RFC3339)},
		})
	}

	logger.InfoContext(ctx, "Dashboard statistics aggregated",
		slog.Int("total", stats.TotalApplications),
		slog.Int("overdueReviews", stats.OverdueReviews))
	return stats, nil
}

// latestPerCustomer keeps the newest score per customer.
func latestPerCustomer(scores []*risk.Score) []*risk.Score {
	byCustomer := make(map[int64]*risk.Score, len(scores))
	order := make([]int64, 0, len(scores))
	for _, sc := range scores {
		if sc == nil {
			continue
		}
		cur, ok := byCustomer[sc.CustomerID]
		if !ok {
			order = append(order, sc.CustomerID)
			byCustomer[sc.CustomerID] = sc
			continue
		}
		if sc.CalculatedAt.After(cur.CalculatedAt) {
			byCustomer[sc.CustomerID] = sc
		}
	}
	out := make([]*risk.Score, 0, len(order))
	for _, id := range order {
		out = append(out, byCustomer[id])
	}
	return out
}

func distribute(scores []*risk.Score, total int) Distribution {
	var low, medium, high int
	for _, sc := range scores {
		switch sc.Level() {
		case risk.LevelLow:
			low++
		case risk.LevelMedium:
			medium++
		case risk.LevelHigh:
			high++
		}
	}
	unknown := total - low - medium - high
	if unknown < 0 {
		unknown = 0
	}
	return Distribution{
		Low:     Bucket{Count: low, Percent: percent(low, total)},
		Medium:  Bucket{Count: medium, Percent: percent(medium, total)},
		High:    Bucket{Count: high, Percent: percent(high, total)},
		Unknown: Bucket{Count: unknown, Percent: percent(unknown, total)},
	}
}

// percent uses max(total, 1) as the denominator and rounds to 2 places.
func percent(n, total int) float64 {
	if total < 1 {
		total = 1
	}
	return decimal.NewFromInt(int64(n)).Mul(hundred).DivRound(decimal.NewFromInt(int64(total)), 2).InexactFloat64()
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(n)).DivRound(decimal.NewFromInt(int64(total)), 2).InexactFloat64()
}

// monthlyTrend emits every calendar month between from and to, including empty ones.
func monthlyTrend(rows []CustomerRow, from, to time.Time) []Trend {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.CreatedAt.UTC().Format(periodLayout)]++
	}

	from, to = from.UTC(), to.UTC()
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	trend := make([]Trend, 0)
	for !cursor.After(last) {
		period := cursor.Format(periodLayout)
		trend = append(trend, Trend{Period: period, Count: counts[period]})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return trend
}
