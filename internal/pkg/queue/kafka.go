package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// Kafka publishes jobs to a topic and consumes them in a consumer group.
type Kafka struct {
	brokers  []string
	topic    string
	groupID  string
	producer sarama.SyncProducer
}

func newKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true
	return cfg
}

func NewKafka(brokers []string, topic, groupID string) (*Kafka, error) {
	producer, err := sarama.NewSyncProducer(brokers, newKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Kafka{brokers: brokers, topic: topic, groupID: groupID, producer: producer}, nil
}

func (k *Kafka) Publish(_ context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	part, off, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(msg.ID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("job-type"), Value: []byte(msg.Type)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	})
	if err != nil {
		return fmt.Errorf("send kafka message: %w", err)
	}

	slog.Debug("kafka message sent", "topic", k.topic, "partition", part, "offset", off)
	return nil
}

func (k *Kafka) Consume(ctx context.Context, h Handler) error {
	group, err := sarama.NewConsumerGroup(k.brokers, k.groupID, newKafkaConfig())
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	go func() {
		for err := range group.Errors() {
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			slog.Error("consumer group error", "error", err)
		}
	}()

	handler := &groupHandler{handle: h}
	for {
		if ctx.Err() != nil {
			return nil
		}

		err := group.Consume(ctx, []string{k.topic}, handler)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			slog.Error("consume error", "error", err)
			time.Sleep(500 * time.Millisecond)
		}
	}
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}

type groupHandler struct {
	handle Handler
}

func (g *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (g *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every message; failures are logged rather than retried.
func (g *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for m := range claim.Messages() {
		var msg Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			slog.Warn("invalid job format", "topic", m.Topic, "offset", m.Offset, "error", err)
			sess.MarkMessage(m, "")
			continue
		}
		if err := g.handle(sess.Context(), msg); err != nil {
			slog.Error("job failed", "job_id", msg.ID, "type", msg.Type, "error", err)
		}
		sess.MarkMessage(m, "")
	}
	return nil
}
