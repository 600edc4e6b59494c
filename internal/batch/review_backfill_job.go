package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/review"
)

// ReviewBackfillJob gives every approved customer without a review its first one.
// It is the safety net for approvals whose scheduling step failed.
type ReviewBackfillJob struct {
	scheduler review.Scheduler
	logger    *slog.Logger
}

func NewReviewBackfillJob(scheduler review.Scheduler, logger *slog.Logger) *ReviewBackfillJob {
	if scheduler == nil || logger == nil {
		panic("ReviewBackfillJob dependencies cannot be nil")
	}
	return &ReviewBackfillJob{
		scheduler: scheduler,
		logger:    logger.With("job", "ReviewBackfill"),
	}
}

func (j *ReviewBackfillJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting review backfill job.")

	res, err := j.scheduler.Backfill(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Review backfill aborted.", slog.Any("error", err), slog.Duration("duration", time.Since(startTime)))
		return fmt.Errorf("review backfill failed: %w", err)
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_scanned", res.Scanned),
		slog.Int("reviews_created", res.Created),
		slog.Int("errors_encountered", res.Failed),
	)
	if res.Failed > 0 {
		summaryLog.WarnContext(ctx, "Review backfill job finished with errors.")
		return fmt.Errorf("job completed with %d errors", res.Failed)
	}
	summaryLog.InfoContext(ctx, "Review backfill job finished successfully.")
	return nil
}
