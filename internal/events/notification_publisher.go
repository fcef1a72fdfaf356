package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NotificationEvent is the payload written for each smart notification.
type NotificationEvent struct {
	UserID       string             `json:"user_id"`
	Notification model.Notification `json:"notification"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// NotificationPublisher fans smart notifications out to Kafka, keyed by user
// so one user's notifications stay ordered within a partition.
type NotificationPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

// NewKafkaWriter builds a writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewNotificationPublisher creates a publisher over w.
func NewNotificationPublisher(w MessageWriter, now func() time.Time) *NotificationPublisher {
	if now == nil {
		now = time.Now
	}
	return &NotificationPublisher{writer: w, now: now}
}

// Publish writes one message per notification. Nothing is written for an
// empty slice.
func (p *NotificationPublisher) Publish(ctx context.Context, userID string, notes []model.Notification) error {
	if len(notes) == 0 {
		return nil
	}

	at := p.now()
	msgs := make([]kafka.Message, 0, len(notes))
	for _, n := range notes {
		value, err := json.Marshal(NotificationEvent{UserID: userID, Notification: n, GeneratedAt: at})
		if err != nil {
			return fmt.Errorf("encode notification %s: %w", n.DealID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(userID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(n.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish notifications: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *NotificationPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops notifications. Used when Kafka is disabled.
type NoopPublisher struct{}

// Publish discards notes.
func (NoopPublisher) Publish(context.Context, string, []model.Notification) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
