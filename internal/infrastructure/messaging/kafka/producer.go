package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "producer closed")
	ErrPublishFailed  = errors.New(errors.ErrCodeMessagingError, "publish failed")
)

const defaultMaxMessageBytes = 1024 * 1024

// OutboundMessage is a record handed to the producer.
type OutboundMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is what the admin import path and the consumer's dead-letter
// path need from a producer.
type Publisher interface {
	Publish(ctx context.Context, msg *OutboundMessage) error
}

// Producer publishes calendar and catalog change events.
type Producer struct {
	writer          WriterInterface
	logger          logging.Logger
	maxMessageBytes int
	closed          atomic.Bool
	sent            atomic.Int64
	failed          atomic.Int64
}

// NewProducer builds a hash-balanced writer over cfg.Brokers. Messages with
// the same key (the court code) land on the same partition.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  maxRetries + 1,
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	return NewProducerWithWriter(writer, log), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log, maxMessageBytes: defaultMaxMessageBytes}
}

// Publish writes one message synchronously.
func (p *Producer) Publish(ctx context.Context, msg *OutboundMessage) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "value required")
	}
	if len(msg.Value) > p.maxMessageBytes {
		return errors.New(errors.ErrCodeValidation, "message too large")
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.failed.Add(1)
		return ErrPublishFailed.WithCause(err)
	}
	p.sent.Add(1)
	p.logger.Debug("message published",
		logging.String("topic", msg.Topic),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// PublishEvent wraps env into a message keyed by key.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, env *EventEnvelope) error {
	msg, err := env.ToMessage(topic)
	if err != nil {
		return err
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return p.Publish(ctx, msg)
}

// Sent and Failed report lifetime counters.
func (p *Producer) Sent() int64   { return p.sent.Load() }
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close is idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}

func toKafkaMessage(msg *OutboundMessage) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
		Time:    ts,
	}
}

//Personal.AI order the ending
