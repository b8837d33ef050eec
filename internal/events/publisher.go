package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RKOrderCreated = "order.created"

// OrderPlaced is published after a checkout transaction commits.
type OrderPlaced struct {
	OrderID string            `json:"order_id"`
	UserID  string            `json:"user_id"`
	Total   string            `json:"total"`
	Items   []OrderPlacedItem `json:"items"`
}

type OrderPlacedItem struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type Publisher interface {
	OrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close()
}

type Rabbit struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbit(url, exchange string) (*Rabbit, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("events: failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("events: failed to declare exchange %q: %w", exchange, err)
	}

	return &Rabbit{conn: conn, ch: ch, exchange: exchange}, nil
}

func (r *Rabbit) OrderPlaced(ctx context.Context, evt OrderPlaced) error {
	return r.publishJSON(ctx, RKOrderCreated, evt)
}

func (r *Rabbit) publishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("events: failed to marshal payload for %q: %w", routingKey, err)
	}

	err = r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("events: failed to publish %q: %w", routingKey, err)
	}

	return nil
}

func (r *Rabbit) Close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) OrderPlaced(_ context.Context, _ OrderPlaced) error { return nil }

func (Noop) Close() {}
