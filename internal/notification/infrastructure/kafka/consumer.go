package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	announcement "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/notification/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/notification/domain"
	order "github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/idempotency"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/tracing"
)

// Consumer turns the order and announcement event streams into hub
// notifications. Delivery failures never reach back into the
// transactions that produced the events.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	hub    *application.Hub
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers, topics []string, group string, hub *application.Hub, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics,
		GroupID:     group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		hub:    hub,
		idem:   idem,
		tracer: otel.Tracer("notification-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		_, span := c.tracer.Start(msgCtx, "ConsumeNotification")

		eventType := headerValue(msg.Headers, "event_type")
		if n, ok := c.toNotification(eventType, msg.Value); ok {
			c.hub.Publish(n)
			c.log.Info("notification published", "kind", n.Kind, "user_id", n.UserID)
		} else {
			c.log.Warn("unknown event type skipped", "event_type", eventType, "topic", msg.Topic)
		}

		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) toNotification(eventType string, payload []byte) (domain.Notification, bool) {
	n := domain.Notification{
		Kind:    eventType,
		Payload: payload,
		At:      time.Now().UTC(),
	}

	switch eventType {
	case order.EventOrderCreated:
		var ev order.OrderCreated
		if err := json.Unmarshal(payload, &ev); err != nil {
			return domain.Notification{}, false
		}
		n.UserID = ev.UserID
	case order.EventOrderCompleted:
		var ev order.OrderCompleted
		if err := json.Unmarshal(payload, &ev); err != nil {
			return domain.Notification{}, false
		}
		n.UserID = ev.UserID
	case order.EventOrderCancelled:
		var ev order.OrderCancelled
		if err := json.Unmarshal(payload, &ev); err != nil {
			return domain.Notification{}, false
		}
		n.UserID = ev.UserID
	case announcement.EventAnnouncementPublished:
		var ev announcement.AnnouncementPublished
		if err := json.Unmarshal(payload, &ev); err != nil {
			return domain.Notification{}, false
		}
		// Announcements scheduled for a future window are not broadcast.
		window := announcement.Announcement{StartsAt: ev.StartsAt, EndsAt: ev.EndsAt}
		if !window.ActiveAt(n.At) {
			return domain.Notification{}, false
		}
		n.UserID = domain.BroadcastUserID
	default:
		return domain.Notification{}, false
	}
	return n, true
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
