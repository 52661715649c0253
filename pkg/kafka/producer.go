package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

var ErrNoBrokers = errors.New("no kafka brokers configured")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles Kafka message publishing
type Producer struct {
	Config *cfg.Config
	Logger log.Logger
	writer messageWriter
	now    func() time.Time
}

// NewProducer creates and returns a new Kafka Producer
func NewProducer(config *cfg.Config, logger log.Logger, topic string) (*Producer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	return newProducer(config, logger, writer), nil
}

func newProducer(config *cfg.Config, logger log.Logger, writer messageWriter) *Producer {
	return &Producer{
		Config: config,
		Logger: logger,
		writer: writer,
		now:    time.Now,
	}
}

// Publish sends a message to the Kafka topic
func (p *Producer) Publish(ctx context.Context, key string, value interface{}) error {
	msg, err := p.message(key, value)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// PublishBatch sends every value under the same key in one write.
func (p *Producer) PublishBatch(ctx context.Context, key string, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(values))
	for _, value := range values {
		msg, err := p.message(key, value)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d messages to kafka: %w", len(msgs), err)
	}

	p.Logger.Debug(ctx, "Published %d messages with key %s", len(msgs), key)
	return nil
}

func (p *Producer) message(key string, value interface{}) (kafka.Message, error) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: jsonBytes,
		Time:  p.now(),
	}, nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
