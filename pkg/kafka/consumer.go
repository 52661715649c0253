package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

// Handler processes the value of one message.
type Handler func(ctx context.Context, value []byte) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer handles Kafka message consumption
type Consumer struct {
	Config     *cfg.Config
	Logger     log.Logger
	topic      string
	reader     messageReader
	handlers   map[string]Handler
	retryDelay time.Duration
}

// NewConsumer creates and returns a new Kafka Consumer
func NewConsumer(config *cfg.Config, logger log.Logger, topic, groupID string) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,        // 10KB
		MaxBytes:       10e6,        // 10MB
		MaxWait:        time.Second, // Maximum amount of time to wait for new data
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour, // 1 week
		CommitInterval: time.Second,        // Flush commits to Kafka every second
	})

	return newConsumer(config, logger, topic, reader), nil
}

func newConsumer(config *cfg.Config, logger log.Logger, topic string, reader messageReader) *Consumer {
	return &Consumer{
		Config:     config,
		Logger:     logger,
		topic:      topic,
		reader:     reader,
		handlers:   make(map[string]Handler),
		retryDelay: time.Second,
	}
}

// RegisterHandler registers a message handler for a specific message key
func (c *Consumer) RegisterHandler(key string, handler Handler) {
	c.handlers[key] = handler
}

// Start consumes messages until ctx is done. Handler failures are logged and
// the message is skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer for topic: %s", c.topic)

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		c.dispatch(ctx, message)
	}
}

func (c *Consumer) dispatch(ctx context.Context, message kafka.Message) {
	key := string(message.Key)
	handler, exists := c.handlers[key]
	if !exists {
		c.Logger.Warn(ctx, "No handler registered for message with key: %s", key)
		return
	}

	if err := handler(ctx, message.Value); err != nil {
		c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
		return
	}
	c.Logger.Debug(ctx, "Successfully processed message with key: %s", key)
}

// Close closes the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
