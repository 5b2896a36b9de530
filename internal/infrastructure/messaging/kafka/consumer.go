package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
	ErrConsumerClosed = errors.New(errors.ErrCodeMessagingError, "consumer closed")
)

// Message is a record read from a topic.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. A non-nil error triggers retries.
type Handler func(ctx context.Context, msg *Message) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RetryPolicy controls redelivery before a message goes to the dead-letter
// topic.
type RetryPolicy struct {
	MaxRetries      int
	Backoff         time.Duration
	MaxBackoff      time.Duration
	DeadLetterTopic string
}

// Consumer reads change events in a consumer group and dispatches them by
// topic. Offsets are committed after the handler succeeds or after the
// message was dead-lettered.
type Consumer struct {
	reader     ReaderInterface
	group      string
	retry      RetryPolicy
	deadLetter Publisher
	logger     logging.Logger

	mu       sync.RWMutex
	handlers map[string]Handler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	processed    atomic.Int64
	failed       atomic.Int64
	deadLettered atomic.Int64
}

// NewConsumer joins cfg.ConsumerGroup on topics. deadLetter may be nil.
func NewConsumer(cfg config.KafkaConfig, topics []string, deadLetter Publisher, log logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if cfg.ConsumerGroup == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka consumer group required")
	}
	if len(topics) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one topic required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.ConsumerGroup,
		GroupTopics:       topics,
		MinBytes:          1,
		MaxBytes:          10 * 1024 * 1024,
		MaxWait:           5 * time.Second,
		SessionTimeout:    30 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		StartOffset:       kafka.LastOffset,
		Dialer:            &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	})
	policy := RetryPolicy{MaxRetries: cfg.MaxRetries, DeadLetterTopic: cfg.DeadLetterTopic}
	return NewConsumerWithReader(reader, cfg.ConsumerGroup, policy, deadLetter, log), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, group string, policy RetryPolicy, deadLetter Publisher, log logging.Logger) *Consumer {
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = 3
	}
	if policy.Backoff <= 0 {
		policy.Backoff = time.Second
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = 30 * time.Second
	}
	return &Consumer{
		reader:     r,
		group:      group,
		retry:      policy,
		deadLetter: deadLetter,
		logger:     log,
		handlers:   make(map[string]Handler),
	}
}

// Subscribe registers handler for topic, replacing any previous one.
func (c *Consumer) Subscribe(topic string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("subscribed to topic", logging.String("topic", topic))
}

// Start launches the fetch loop. It returns immediately.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)
	c.logger.Info("kafka consumer started", logging.String("group", c.group))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for ctx.Err() == nil {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		msg := fromKafkaMessage(m)
		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.logger.Warn("no handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err != nil {
			// Context cancelled mid-retry: leave the offset uncommitted so the
			// message is redelivered.
			return
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("kafka commit failed", logging.Err(err), logging.Int64("offset", m.Offset))
		}
	}
}

// processMessage returns an error only when ctx is cancelled. Exhausted
// retries end in the dead-letter topic (or a log line) and count as handled.
func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler Handler) error {
	err := handler(ctx, msg)
	if err == nil {
		c.processed.Add(1)
		return nil
	}

	backoff := c.retry.Backoff
	for i := 0; i < c.retry.MaxRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if err = handler(ctx, msg); err == nil {
			c.processed.Add(1)
			return nil
		}
		backoff *= 2
		if backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}

	c.failed.Add(1)
	c.logger.Error("message processing failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(err))

	if c.deadLetter == nil || c.retry.DeadLetterTopic == "" {
		return nil
	}
	headers := make(map[string]string, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["original_topic"] = msg.Topic
	headers["error_message"] = err.Error()
	dl := &OutboundMessage{
		Topic:   c.retry.DeadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	if dlErr := c.deadLetter.Publish(ctx, dl); dlErr != nil {
		c.logger.Error("dead-letter publish failed", logging.Err(dlErr))
		return nil
	}
	c.deadLettered.Add(1)
	return nil
}

// Stats reports processed, failed and dead-lettered counts.
func (c *Consumer) Stats() (processed, failed, deadLettered int64) {
	return c.processed.Load(), c.failed.Load(), c.deadLettered.Load()
}

// Close stops the loop and closes the reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("kafka consumer closed", logging.Int64("processed", c.processed.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

//Personal.AI order the ending
