package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends booking events to RabbitMQ. Each publish dials a
// fresh connection; volumes are small and this keeps the publisher free
// of connection state and reconnect logic. Failures are logged and
// returned so the caller can choose to ignore them without interrupting
// the request flow.
type Publisher struct {
	url    string
	logger *zap.Logger
}

// NewPublisher returns a Publisher targeting the given AMQP URL.
func NewPublisher(url string, logger *zap.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishBookingCreated publishes ev to the booking.created queue.
func (p *Publisher) PublishBookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
	return p.publish(ctx, BookingCreatedQueue, ev)
}

// PublishBookingCancelled publishes ev to the booking.cancelled queue.
func (p *Publisher) PublishBookingCancelled(ctx context.Context, ev BookingCancelledEvent) error {
	return p.publish(ctx, BookingCancelledQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("rabbitmq queue declare failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.logger.Warn("rabbitmq publish failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}
	return nil
}
