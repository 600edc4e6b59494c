package event

import (
	"context"
	"log/slog"
)

// LogPublisher stands in when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) PublishCustomerEvent(ctx context.Context, routingKey string, evt CustomerEvent) error {
	p.logger.DebugContext(ctx, "Customer event",
		slog.String("routingKey", routingKey),
		slog.Int64("customerID", evt.CustomerID),
		slog.String("status", evt.Status))
	return nil
}

func (p *LogPublisher) PublishReviewEvent(ctx context.Context, routingKey string, evt ReviewEvent) error {
	p.logger.DebugContext(ctx, "Review event",
		slog.String("routingKey", routingKey),
		slog.Int64("customerID", evt.CustomerID),
		slog.String("scheduledDate", evt.ScheduledDate))
	return nil
}
