// Package kafka carries calendar and catalog change events between replicas:
// an admin import publishes, every API server consumes and drops its caches.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// Event types.
const (
	EventCalendarUpdated = "calendar.updated"
	EventCatalogUpdated  = "catalog.updated"
)

const schemaVersion = "v1"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CalendarUpdatedPayload announces that a court's calendar changed. An empty
// Court means every court (e.g. national holidays were reseeded).
type CalendarUpdatedPayload struct {
	Court     string    `json:"court,omitempty"`
	Version   string    `json:"version"`
	Reason    string    `json:"reason"`
	Entries   int       `json:"entries"`
	ChangedAt time.Time `json:"changed_at"`
}

// CatalogUpdatedPayload announces a catalog reload.
type CatalogUpdatedPayload struct {
	Codes     []string  `json:"codes,omitempty"`
	Reason    string    `json:"reason"`
	ChangedAt time.Time `json:"changed_at"`
}

func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

func (e *EventEnvelope) ToMessage(topic string) (*OutboundMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &OutboundMessage{
		Topic: topic,
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed message.
func DecodeEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	if env.EventType == "" {
		return nil, errors.New(errors.ErrCodeValidation, "envelope without event_type")
	}
	return &env, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic administration
// ─────────────────────────────────────────────────────────────────────────────

// TopicSpec describes a topic to create.
type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the change-feed topics on startup.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, log logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka")
	}
	return NewTopicManagerWithConn(conn, log), nil
}

func NewTopicManagerWithConn(conn ConnInterface, log logging.Logger) *TopicManager {
	return &TopicManager{conn: conn, logger: log}
}

func (m *TopicManager) TopicExists(ctx context.Context, name string) bool {
	partitions, err := m.conn.ReadPartitions(name)
	return err == nil && len(partitions) > 0
}

// EnsureTopics creates every missing topic.
func (m *TopicManager) EnsureTopics(ctx context.Context, specs []TopicSpec) error {
	for _, s := range specs {
		if s.Name == "" || s.NumPartitions <= 0 || s.ReplicationFactor <= 0 {
			return errors.Newf(errors.ErrCodeValidation, "invalid topic spec %+v", s)
		}
		if m.TopicExists(ctx, s.Name) {
			continue
		}
		tc := kafka.TopicConfig{
			Topic:             s.Name,
			NumPartitions:     s.NumPartitions,
			ReplicationFactor: s.ReplicationFactor,
		}
		if s.RetentionMs > 0 {
			tc.ConfigEntries = append(tc.ConfigEntries, kafka.ConfigEntry{
				ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", s.RetentionMs),
			})
		}
		if err := m.conn.CreateTopics(tc); err != nil {
			return errors.Wrap(err, errors.ErrCodeMessagingError, "create topic "+s.Name)
		}
		m.logger.Info("topic created", logging.String("topic", s.Name))
	}
	return nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics lists the change-feed topics named in cfg.
func DefaultTopics(cfg config.KafkaConfig) []TopicSpec {
	const day = int64(24 * 3600 * 1000)
	return []TopicSpec{
		{Name: cfg.CalendarTopic, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 7 * day},
		{Name: cfg.CatalogTopic, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 7 * day},
		{Name: cfg.DeadLetterTopic, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 30 * day},
	}
}

//Personal.AI order the ending
