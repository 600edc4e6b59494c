package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/event"
	"kyc-onboarding/internal/infrastructure/monitoring"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReviewEnsurer is the part of the review scheduler the handler drives.
type ReviewEnsurer interface {
	EnsureAfterApproval(ctx context.Context, customerID int64, decisionDate *time.Time) (*review.BackfillResult, error)
}

// ApprovalHandler re-runs review scheduling for customer.approved events.
// Scheduling is idempotent, so this only does work when the synchronous
// step during approval failed.
type ApprovalHandler struct {
	reviews ReviewEnsurer
	logger  *slog.Logger
}

func NewApprovalHandler(reviews ReviewEnsurer, logger *slog.Logger) *ApprovalHandler {
	if reviews == nil || logger == nil {
		panic("ApprovalHandler dependencies cannot be nil")
	}
	return &ApprovalHandler{
		reviews: reviews,
		logger:  logger.With("component", "ApprovalHandler"),
	}
}

func (h *ApprovalHandler) RoutingKeys() []string {
	return []string{event.RoutingKeyCustomerApproved}
}

func (h *ApprovalHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))

	if d.RoutingKey != event.RoutingKeyCustomerApproved {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeDiscarded, d.Reject(false))
		return
	}

	var evt event.CustomerEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil || evt.CustomerID <= 0 {
		logCtx.ErrorContext(ctx, "Malformed customer event. Discarding.", slog.Any("error", err), slog.String("body", string(d.Body)))
		h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeDiscarded, d.Nack(false, false))
		return
	}
	logCtx = logCtx.With(slog.Int64("customerID", evt.CustomerID))

	if evt.Status != string(customer.StatusApproved) {
		logCtx.WarnContext(ctx, "Approval event carries a non-approved status. Ignoring.", slog.String("status", evt.Status))
		h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeAcked, d.Ack(false))
		return
	}

	var decisionDate *time.Time
	if !evt.Timestamp.IsZero() {
		decisionDate = &evt.Timestamp
	}

	res, err := h.reviews.EnsureAfterApproval(ctx, evt.CustomerID, decisionDate)
	if err != nil {
		// One redelivery; after that the nightly backfill picks the customer up.
		if d.Redelivered {
			logCtx.ErrorContext(ctx, "Review scheduling failed on redelivery. Leaving it to the backfill job.", slog.Any("error", err))
			h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeDiscarded, d.Nack(false, false))
			return
		}
		logCtx.WarnContext(ctx, "Review scheduling failed. Requeueing.", slog.Any("error", err))
		h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeRequeued, d.Nack(false, true))
		return
	}

	logCtx.InfoContext(ctx, "Review scheduling confirmed for approved customer",
		slog.Bool("created", res.CustomerReviewCreated),
		slog.Int("backfilled", res.Created))
	h.settle(ctx, logCtx, d.RoutingKey, monitoring.OutcomeAcked, d.Ack(false))
}

func (h *ApprovalHandler) settle(ctx context.Context, logCtx *slog.Logger, routingKey, outcome string, err error) {
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to settle message", slog.String("outcome", outcome), slog.Any("error", err))
		return
	}
	monitoring.RecordEventConsumed(routingKey, outcome)
}
