package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	appctx "stockview/internal/core/context"
	"stockview/pkg/logger"
)

// maxRedeliveries is how often a failed event is requeued before it is dropped.
const maxRedeliveries = 3

// Handler processes one change event.
type Handler func(ctx context.Context, event *Event) error

// Consumer reads change events from a durable queue.
type Consumer struct {
	rmq     *RabbitMQ
	queue   string
	handler Handler
}

// NewConsumer declares queue, binds it to every change on exchange and
// returns a consumer dispatching to handler.
func NewConsumer(rmq *RabbitMQ, exchange, queue string, handler Handler) (*Consumer, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := rmq.DeclareQueue(queue, exchange, RoutingPatternAll); err != nil {
		return nil, err
	}
	return &Consumer{rmq: rmq, queue: queue, handler: handler}, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.rmq.Channel().Consume(
		c.queue, // queue
		"",      // consumer tag (auto-generated)
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Info(ctx, "consumer started", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "consumer stopped", "queue", c.queue)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn(ctx, "delivery channel closed", "queue", c.queue)
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error(ctx, "failed to unmarshal event", "error", err)
		_ = msg.Reject(false)
		return
	}

	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{RequestID: event.CorrelationID})

	if err := c.handler(ctx, &event); err != nil {
		if msg.Redelivered && redeliveries(msg) >= maxRedeliveries {
			logger.Error(ctx, "dropping event after retries", "event_id", event.ID, "error", err)
			_ = msg.Reject(false)
			return
		}
		logger.Warn(ctx, "failed to process event, requeueing", "event_id", event.ID, "error", err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

// redeliveries reads the quorum queue delivery count. Without it a
// redelivered failure counts as exhausted.
func redeliveries(msg amqp.Delivery) int {
	if msg.Headers == nil {
		return maxRedeliveries
	}
	switch v := msg.Headers["x-delivery-count"].(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	}
	return maxRedeliveries
}
