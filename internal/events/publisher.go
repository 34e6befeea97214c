// Package events streams successful alert setups to Kafka for downstream
// consumers (reporting, audit). Publishing is best-effort: a failed publish
// is logged and never affects the caller's response.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"aqalert/pkg/logger"
)

// SetupEvent records one completed setup-alert request. UserID is the
// subscription document id, never the contact value.
type SetupEvent struct {
	UserID        string    `json:"userId"`
	AlertType     string    `json:"alertType"`
	Location      string    `json:"location"`
	LocationCount int       `json:"locationCount"`
	RequestID     string    `json:"requestId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Publisher interface {
	PublishSetup(ctx context.Context, event SetupEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // key by user id so a contact's events stay ordered
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka producer error", "detail", fmt.Sprintf(msg, args...))
		}),
	}

	return &kafkaPublisher{
		writer: writer,
		log:    log,
	}, nil
}

func (p *kafkaPublisher) PublishSetup(ctx context.Context, event SetupEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal setup event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "x-request-id", Value: []byte(event.RequestID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish setup event: %w", err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
