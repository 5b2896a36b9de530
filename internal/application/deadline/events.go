package deadline

import (
	"context"
	"time"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// EventHandlers adapts change-feed messages to the service.
type EventHandlers struct {
	svc     Service
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewEventHandlers returns the handlers for the calendar and catalog topics.
func NewEventHandlers(svc Service, metrics *prometheus.AppMetrics, log logging.Logger) *EventHandlers {
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	return &EventHandlers{svc: svc, metrics: metrics, logger: log}
}

// Register subscribes the handlers on c.
func (h *EventHandlers) Register(c *kafka.Consumer, calendarTopic, catalogTopic string) {
	c.Subscribe(calendarTopic, h.HandleCalendarUpdated)
	c.Subscribe(catalogTopic, h.HandleCatalogUpdated)
}

// HandleCalendarUpdated drops every cached snapshot and result. Malformed
// messages are returned as errors so the consumer dead-letters them.
func (h *EventHandlers) HandleCalendarUpdated(ctx context.Context, msg *kafka.Message) error {
	var payload kafka.CalendarUpdatedPayload
	if err := h.decode(msg, kafka.EventCalendarUpdated, &payload); err != nil {
		return err
	}
	if _, err := h.svc.Invalidate(ctx, TriggerEvent); err != nil {
		h.metrics.EventsConsumedTotal.WithLabelValues(kafka.EventCalendarUpdated, "error").Inc()
		return err
	}
	h.metrics.EventsConsumedTotal.WithLabelValues(kafka.EventCalendarUpdated, "ok").Inc()
	h.logger.Info("calendar change applied",
		logging.String("court", payload.Court),
		logging.String("version", payload.Version),
		logging.String("reason", payload.Reason))
	return nil
}

// HandleCatalogUpdated reloads the catalog.
func (h *EventHandlers) HandleCatalogUpdated(ctx context.Context, msg *kafka.Message) error {
	var payload kafka.CatalogUpdatedPayload
	if err := h.decode(msg, kafka.EventCatalogUpdated, &payload); err != nil {
		return err
	}
	n, err := h.svc.ReloadCatalog(ctx)
	if err != nil {
		h.metrics.EventsConsumedTotal.WithLabelValues(kafka.EventCatalogUpdated, "error").Inc()
		return err
	}
	h.metrics.EventsConsumedTotal.WithLabelValues(kafka.EventCatalogUpdated, "ok").Inc()
	h.logger.Info("catalog change applied", logging.Int("entries", n), logging.Strings("codes", payload.Codes))
	return nil
}

func (h *EventHandlers) decode(msg *kafka.Message, want string, payload interface{}) error {
	env, err := kafka.DecodeEnvelope(msg)
	if err != nil {
		h.metrics.EventsConsumedTotal.WithLabelValues(want, "malformed").Inc()
		return err
	}
	if env.EventType != want {
		h.metrics.EventsConsumedTotal.WithLabelValues(env.EventType, "unexpected").Inc()
		return errors.New(errors.ErrCodeValidation, "unexpected event type").WithDetail(env.EventType)
	}
	if err := env.DecodePayload(payload); err != nil {
		h.metrics.EventsConsumedTotal.WithLabelValues(want, "malformed").Inc()
		return err
	}
	return nil
}

// Notifier announces local calendar and catalog changes to other replicas.
type Notifier struct {
	publisher     kafka.Publisher
	calendarTopic string
	catalogTopic  string
	source        string
}

// NewNotifier returns a notifier publishing on the given topics.
func NewNotifier(p kafka.Publisher, calendarTopic, catalogTopic, source string) *Notifier {
	return &Notifier{publisher: p, calendarTopic: calendarTopic, catalogTopic: catalogTopic, source: source}
}

// CalendarUpdated publishes a calendar.updated event keyed by court.
func (n *Notifier) CalendarUpdated(ctx context.Context, court, version, reason string, entries int) error {
	env, err := kafka.NewEventEnvelope(kafka.EventCalendarUpdated, n.source, kafka.CalendarUpdatedPayload{
		Court:     court,
		Version:   version,
		Reason:    reason,
		Entries:   entries,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(n.calendarTopic)
	if err != nil {
		return err
	}
	msg.Key = []byte(court)
	return n.publisher.Publish(ctx, msg)
}

// CatalogUpdated publishes a catalog.updated event.
func (n *Notifier) CatalogUpdated(ctx context.Context, codes []string, reason string) error {
	env, err := kafka.NewEventEnvelope(kafka.EventCatalogUpdated, n.source, kafka.CatalogUpdatedPayload{
		Codes:     codes,
		Reason:    reason,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(n.catalogTopic)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, msg)
}

//Personal.AI order the ending
