package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/infrastructure/monitoring"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publisherAppID = "kyc-onboarding"
	confirmTimeout = 5 * time.Second
)

// RabbitMQEventPublisher sends each event on a short-lived confirm-mode channel
// and reports failure unless the broker acks it.
type RabbitMQEventPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

var _ Publisher = (*RabbitMQEventPublisher)(nil)

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for exchange declaration: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}

	logger = logger.With(slog.String("component", "eventPublisher"), slog.String("exchange", exchangeName))
	logger.Info("Event exchange declared", slog.String("type", amqp.ExchangeTopic))

	return &RabbitMQEventPublisher{conn: conn, exchangeName: exchangeName, logger: logger}, nil
}

func (p *RabbitMQEventPublisher) PublishCustomerEvent(ctx context.Context, routingKey string, evt CustomerEvent) error {
	return p.publish(ctx, routingKey, evt)
}

func (p *RabbitMQEventPublisher) PublishReviewEvent(ctx context.Context, routingKey string, evt ReviewEvent) error {
	return p.publish(ctx, routingKey, evt)
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	msg, err := newPublishing(routingKey, payload, time.Now())
	if err != nil {
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeFailed)
		return err
	}
	logger := p.logger.With(slog.String("routingKey", routingKey), slog.String("messageID", msg.MessageId))

	ch, err := p.conn.Channel()
	if err != nil {
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeFailed)
		logger.ErrorContext(ctx, "Failed to open channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeFailed)
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	confirmCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(confirmCtx, p.exchangeName, routingKey, false, false, msg)
	if err != nil {
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeFailed)
		logger.ErrorContext(ctx, "Failed to publish event", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	acked, err := confirmation.WaitContext(confirmCtx)
	switch {
	case err != nil:
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeFailed)
		logger.ErrorContext(ctx, "No broker confirmation for event", slog.Any("error", err))
		return fmt.Errorf("waiting for publish confirmation: %w", err)
	case !acked:
		monitoring.RecordEventPublished(routingKey, monitoring.OutcomeNacked)
		logger.ErrorContext(ctx, "Broker rejected event")
		return fmt.Errorf("broker nacked message %s", msg.MessageId)
	}

	monitoring.RecordEventPublished(routingKey, monitoring.OutcomeConfirmed)
	logger.DebugContext(ctx, "Event confirmed by broker", slog.Int("bodySize", len(msg.Body)))
	return nil
}

// newPublishing builds the persistent JSON message for one event.
func newPublishing(routingKey string, payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         routingKey,
		Timestamp:    now.UTC(),
		AppId:        publisherAppID,
		Body:         body,
	}, nil
}
