// Package events carries "blob uploaded" notifications from the upload
// command to the serverless aggregation job over Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// TypeBlobCreated is the event type published after an upload
const TypeBlobCreated = "blob.created"

// BlobEvent describes an uploaded blob
type BlobEvent struct {
	Type      string    `json:"type"`
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageWriter is the part of kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageReader is the part of kafka.Reader the listener uses
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Publisher sends blob events
type Publisher struct {
	Writer MessageWriter
}

// NewPublisher creates a publisher writing to topic
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{Writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}}
}

// Publish sends one event keyed by the blob key
func (p *Publisher) Publish(ctx context.Context, ev BlobEvent) error {
	if ev.Type == "" {
		ev.Type = TypeBlobCreated
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.Key), Value: payload}); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.Writer.Close()
}

// HandlerFunc processes one blob event
type HandlerFunc func(ctx context.Context, ev BlobEvent) error

// Listener consumes blob events and hands them to Handle
type Listener struct {
	Reader MessageReader
	Handle HandlerFunc
}

// NewListener creates a consumer-group listener on topic
func NewListener(brokers []string, topic, groupID string, handle HandlerFunc) *Listener {
	return &Listener{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		Handle: handle,
	}
}

// Start reads until ctx is done or the reader is closed. Undecodable messages
// and handler failures are logged and skipped.
func (l *Listener) Start(ctx context.Context) error {
	log.Info().Msg("Starting blob event listener...")
	for {
		message, err := l.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			log.Error().Err(err).Msg("Error reading message")
			return err
		}

		var ev BlobEvent
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			log.Error().Err(err).Msg("Error unmarshaling message")
			continue
		}
		if ev.Type != TypeBlobCreated {
			log.Debug().Str("type", ev.Type).Msg("ignoring event")
			continue
		}

		log.Info().Str("bucket", ev.Bucket).Str("key", ev.Key).Msg("Processing blob event")
		if err := l.Handle(ctx, ev); err != nil {
			log.Error().Err(err).Str("key", ev.Key).Msg("Error processing blob event")
			continue
		}
	}
}

// Close closes the reader
func (l *Listener) Close() error {
	return l.Reader.Close()
}
