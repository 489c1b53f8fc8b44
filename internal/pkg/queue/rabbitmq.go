package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes to and consumes from one durable queue.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewRabbitMQ(url, name string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}

	slog.Info("connected to rabbitmq", "queue", q.Name)
	return &RabbitMQ{conn: conn, channel: ch, queue: q}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Type:         msg.Type,
			Timestamp:    msg.CreatedAt,
			Body:         body,
		},
	)
}

// Consume acks handled messages. Failed messages are rejected without requeue.
func (r *RabbitMQ) Consume(ctx context.Context, h Handler) error {
	deliveries, err := r.channel.ConsumeWithContext(
		ctx,
		r.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				slog.Error("invalid job format", "error", err)
				_ = d.Reject(false)
				continue
			}
			if err := h(ctx, msg); err != nil {
				slog.Error("job failed", "job_id", msg.ID, "type", msg.Type, "error", err)
				_ = d.Reject(false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}
