package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const exchangeName = "bistro_events"

// Rabbit publishes state-change events to a durable topic exchange. Routing
// keys are the core's channel names (kitchen, billing, customer.{id},
// inventory); consumers bind whatever patterns they care about.
type Rabbit struct {
	mu      sync.Mutex
	url     string
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func New(url string) (*Rabbit, error) {
	r := &Rabbit{url: url}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rabbit) connect() error {
	const maxRetries = 5
	var err error

	for i := 0; i < maxRetries; i++ {
		r.conn, err = amqp091.Dial(r.url)
		if err == nil {
			r.channel, err = r.conn.Channel()
			if err == nil {
				err = r.channel.ExchangeDeclare(
					exchangeName,
					"topic",
					true,  // durable
					false, // auto-deleted
					false, // internal
					false, // no-wait
					nil,
				)
				if err == nil {
					return nil
				}
			}
			r.conn.Close()
		}

		if i < maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			slog.Error("rabbitmq connection failed, retrying", "wait", wait, "error", err)
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// Publish sends a JSON-encoded payload to a topic. Delivery is best-effort
// and at-least-once from the consumer's point of view; callers already
// committed their transaction before getting here.
func (r *Rabbit) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		if err := r.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = r.channel.PublishWithContext(ctx,
		exchangeName,
		topic,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (r *Rabbit) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
