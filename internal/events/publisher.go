package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rentkaro/rentkaro/internal/middleware"
	"github.com/rentkaro/rentkaro/internal/order"
)

// Publisher emits order lifecycle events on the topic exchange so the
// surrounding services (notifications, seller dashboard, analytics) can
// react without the core knowing about them.
type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	payload := OrderCreated{
		OrderID:        o.ID,
		BuyerID:        o.BuyerID,
		ItemsTotal:     o.ItemsTotal,
		ShippingAmount: o.ShippingAmount,
		TotalAmount:    o.TotalAmount,
		Timestamp:      time.Now().UTC(),
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Kind:      string(it.Kind),
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}

	env := newEnvelope(ctx, OrderCreatedEventName, OrderCreatedVersion, o.BuyerID, payload)
	return publishJSON(ctx, p.ch, OrderCreatedRoutingKey, env)
}

func (p *Publisher) PublishOrderConfirmed(ctx context.Context, o *order.Order) error {
	payload := OrderConfirmed{
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		PaymentRef: o.PaymentRef,
		Timestamp:  time.Now().UTC(),
	}
	env := newEnvelope(ctx, OrderConfirmedEventName, OrderConfirmedVersion, o.BuyerID, payload)
	return publishJSON(ctx, p.ch, OrderConfirmedRoutingKey, env)
}

func (p *Publisher) PublishPaymentFailed(ctx context.Context, o *order.Order, reason string) error {
	payload := OrderPaymentFailed{
		OrderID:   o.ID,
		BuyerID:   o.BuyerID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
	env := newEnvelope(ctx, PaymentFailedEventName, PaymentFailedVersion, o.BuyerID, payload)
	return publishJSON(ctx, p.ch, PaymentFailedRoutingKey, env)
}

func newEnvelope[T any](ctx context.Context, name string, version int, partitionKey string, payload T) EventEnvelope[T] {
	return EventEnvelope[T]{
		EventName:     name,
		EventVersion:  version,
		EventID:       uuid.NewString(),
		CorrelationID: middleware.GetCorrelationID(ctx),
		Producer:      producerName,
		PartitionKey:  partitionKey,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

func publishJSON[T any](ctx context.Context, ch *amqp.Channel, routingKey string, env EventEnvelope[T]) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.EventName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
