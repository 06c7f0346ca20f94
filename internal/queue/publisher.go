package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityQueueName is the durable queue all activity events go to.
const ActivityQueueName = "innovation.activity"

// dialTimeout bounds connection setup so an unreachable broker cannot stall
// the request that triggered the event.
const dialTimeout = 3 * time.Second

// Publisher delivers activity events.  Implementations must not panic;
// callers treat a publish failure as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev ActivityEvent) error
}

// NopPublisher discards events.  It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }

// AMQPPublisher publishes each event to ActivityQueueName over a fresh
// connection.  Messages are persistent and carry a unique message id.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish implements Publisher.  Errors are returned, not logged.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ActivityEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ActivityQueueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", ev.Type, err)
	}
	return nil
}
