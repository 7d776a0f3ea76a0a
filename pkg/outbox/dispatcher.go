package outbox

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher publishes outbox events to Kafka, routing by aggregate type.
// Aggregates without a mapping go to the default topic.
type Dispatcher struct {
	log          *slog.Logger
	producer     Producer
	defaultTopic string
	topics       map[string]string
}

func NewDispatcher(log *slog.Logger, producer Producer, defaultTopic string, topics map[string]string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, defaultTopic: defaultTopic, topics: topics}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	headers := make([]kafka.Header, 0, len(event.Headers)+2)

	for k, v := range event.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})
	if event.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(event.Traceparent)})
	}

	topic := d.defaultTopic
	if t, ok := d.topics[event.AggregateType]; ok {
		topic = t
	}

	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "topic", topic, "err", err)
		return err
	}
	d.log.Info("outbox dispatched", "event_id", event.ID, "type", event.Type, "topic", topic)
	return nil
}
