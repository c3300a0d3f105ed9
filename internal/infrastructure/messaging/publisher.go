package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	appctx "stockview/internal/core/context"
	"stockview/internal/domain"
	"stockview/pkg/logger"
)

// publishTimeout bounds a single publish so a stuck broker never stalls a write.
const publishTimeout = 5 * time.Second

// Publisher sends change events to a topic exchange.
// It implements domain.ChangeNotifier: publish failures are logged, never returned.
type Publisher struct {
	rmq      *RabbitMQ
	exchange string
	source   string
}

var _ domain.ChangeNotifier = (*Publisher)(nil)

// NewPublisher declares exchange and returns a publisher for it.
func NewPublisher(rmq *RabbitMQ, exchange, source string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{rmq: rmq, exchange: exchange, source: source}, nil
}

// Publish sends one change event.
func (p *Publisher) Publish(ctx context.Context, scope domain.ChangeScope) error {
	event := NewEvent(p.source, appctx.GetRequestID(ctx), scope)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.rmq.Channel().PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     event.ID,
			CorrelationId: event.CorrelationID,
			Timestamp:     event.Time,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug(ctx, "change event published", "routing_key", event.Type, "event_id", event.ID)
	return nil
}

// NotifyChange implements domain.ChangeNotifier.
func (p *Publisher) NotifyChange(ctx context.Context, scope domain.ChangeScope) {
	if err := p.Publish(ctx, scope); err != nil {
		logger.Warn(ctx, "change event not published", "kind", scope.Kind, "action", scope.Action, "error", err)
	}
}
