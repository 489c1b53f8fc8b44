package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("queue closed")

// Message is a background job envelope.
type Message struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMessage marshals payload into a message with a fresh id.
func NewMessage(jobType string, payload any) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", jobType, err)
	}
	return Message{
		ID:        uuid.NewString(),
		Type:      jobType,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type Handler func(ctx context.Context, msg Message) error

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

type Consumer interface {
	// Consume blocks, calling h for each message until ctx is done.
	Consume(ctx context.Context, h Handler) error
}

type Queue interface {
	Publisher
	Consumer
}
