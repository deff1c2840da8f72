package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// Consumer runs a pool of workers reading MatchRequests from a durable queue.
type Consumer struct {
	URL      string
	Queue    string
	Exchange string
	Workers  int
	Handler  *Handler
}

// Run starts the worker pool and blocks until ctx is canceled or a worker
// loses its channel.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	if err := declareExchange(conn, c.Exchange); err != nil {
		return err
	}
	if c.Handler.Publisher == nil {
		c.Handler.Publisher = &AMQPPublisher{conn: conn, exchange: c.Exchange}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range max(c.Workers, 1) {
		id := i + 1
		log.Printf("[worker] worker %d started", id)
		g.Go(func() error {
			return c.work(ctx, conn, id)
		})
	}
	return g.Wait()
}

func (c *Consumer) work(ctx context.Context, conn *amqp.Connection, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		c.Queue, // queue name
		true,    // durable
		false,   // auto-delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	// one unacknowledged request per worker
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(
		c.Queue, // queue name
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq messages: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			outcome := c.Handler.Handle(ctx, msg.Body, msg.Redelivered)
			if err := settle(msg, outcome); err != nil {
				log.Printf("[worker] worker %d failed to %s message: %v", id, outcome, err)
			}
		}
	}
}

func settle(msg amqp.Delivery, outcome Outcome) error {
	switch outcome {
	case Reject:
		return msg.Reject(false)
	case Requeue:
		return msg.Nack(false, true)
	}
	return msg.Ack(false)
}

func declareExchange(conn *amqp.Connection, exchange string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}

// AMQPPublisher publishes MatchUpdates to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// Publish sends update under RoutingKey(update.RequestID).
func (p *AMQPPublisher) Publish(_ context.Context, update MatchUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		RoutingKey(update.RequestID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Enqueue publishes req to the named queue, declaring it if needed.
func Enqueue(url, queue string, req *MatchRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid match request: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return ch.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
