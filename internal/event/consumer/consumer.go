package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultHandleTimeout = 30 * time.Second

// MessageHandler must Ack, Nack or Reject every delivery it receives.
type MessageHandler func(ctx context.Context, d amqp.Delivery)

// topology is the part of *amqp.Channel used to declare the exchange, queue and bindings.
type topology interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
}

// Consumer reads one durable queue bound to the domain event exchange.
// Deliveries are handled one at a time, each under its own timeout.
type Consumer struct {
	channel       *amqp.Channel
	queueName     string
	consumerTag   string
	handler       MessageHandler
	handleTimeout time.Duration
	logger        *slog.Logger
	wg            sync.WaitGroup
	cancel        context.CancelFunc
}

func NewConsumer(
	conn *amqp.Connection,
	exchangeName, queueName, consumerTag string,
	routingKeys []string,
	handler MessageHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}
	if len(routingKeys) == 0 {
		return nil, fmt.Errorf("at least one routing key is required")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	logger = logger.With(slog.String("component", "eventConsumer"), slog.String("queue", queueName))
	name, err := declareTopology(ch, exchangeName, queueName, routingKeys, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Consumer{
		channel:       ch,
		queueName:     name,
		consumerTag:   consumerTag,
		handler:       handler,
		handleTimeout: defaultHandleTimeout,
		logger:        logger,
	}, nil
}

func declareTopology(ch topology, exchangeName, queueName string, routingKeys []string, logger *slog.Logger) (string, error) {
	if err := ch.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchangeName, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind queue '%s' with key '%s': %w", q.Name, key, err)
		}
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return "", fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.Info("Queue bound to event exchange", slog.String("exchange", exchangeName), slog.Any("routingKeys", routingKeys))
	return q.Name, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		_ = c.channel.Close()
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(loopCtx, deliveries)
	}()

	c.logger.Info("Consuming events", slog.String("consumerTag", c.consumerTag))
	return nil
}

func (c *Consumer) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Consumer stopping, context done")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Delivery channel closed by broker")
				return
			}
			c.process(ctx, d)
		}
	}
}

// process runs the handler under a timeout. A panicking handler gets its
// delivery dead-lettered instead of killing the loop.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, c.handleTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Event handler panicked",
				slog.String("routingKey", d.RoutingKey),
				slog.String("messageID", d.MessageId),
				slog.Any("panic", r))
			if err := d.Nack(false, false); err != nil {
				c.logger.Error("Failed to nack delivery after panic", slog.Any("error", err))
			}
		}
	}()

	c.handler(hctx, d)
}

func (c *Consumer) Stop() {
	if c.cancel == nil {
		c.logger.Warn("Consumer stop called before it was started")
		return
	}

	if err := c.channel.Cancel(c.consumerTag, false); err != nil {
		c.logger.Warn("Failed to cancel consumer tag", slog.String("tag", c.consumerTag), slog.Any("error", err))
	}
	c.cancel()
	c.wg.Wait()

	if err := c.channel.Close(); err != nil {
		c.logger.Error("Failed to close consumer channel", slog.Any("error", err))
		return
	}
	c.logger.Info("Consumer stopped")
}
