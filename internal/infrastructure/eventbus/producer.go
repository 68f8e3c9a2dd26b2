package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"shop-backend/pkg/logger"
)

// Event là envelope chung của mọi message publish ra Kafka
type Event struct {
	EventID   string      `json:"event_id"`
	Type      string      `json:"type"`
	Key       string      `json:"-"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher publish event theo key (cùng key -> cùng partition -> giữ thứ tự)
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer trả về NoopPublisher khi brokers rỗng (môi trường dev không có Kafka)
func NewProducer(brokers, topic string) Publisher {
	if strings.TrimSpace(brokers) == "" {
		logger.Info("Kafka brokers not configured, events are dropped", map[string]interface{}{"topic": topic})
		return NoopPublisher{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           10 * time.Second,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	logger.Info("Event published", map[string]interface{}{
		"event_id": event.EventID,
		"type":     event.Type,
		"key":      event.Key,
	})
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
