package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	order "github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	orderkafka "github.com/dmehra2102/Bookstore-Order-System/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/Bookstore-Order-System/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/outbox"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

// Checkout writes to the outbox inside the order transaction; the relay
// must get the event onto the topic and flip the row to sent.
func TestRelayDeliversOutboxEvents(t *testing.T) {
	skipShort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := discardLogger()
	topic := fmt.Sprintf("order.events.%d", time.Now().UnixNano())

	writer := orderkafka.NewWriter(env.Brokers)
	defer writer.Close()

	dispatch := outbox.NewDispatcher(log, writer, topic, map[string]string{"order": topic})
	store := orderpg.NewOutboxStore(log, pool)
	relay := outbox.NewRelay(log, store, dispatch, "relay-it-1")
	go func() { _ = relay.Run(ctx) }()

	svcs := newServices()
	const userID = int64(201)
	b := seedBook(t, svcs.catalog, "Site Reliability Engineering", "25", 4)

	_, err := svcs.cart.AddItem(ctx, userID, b.ID, 1)
	require.NoError(t, err)

	o, err := svcs.order.Checkout(ctx, userID, map[string]string{"source": "integration"}, "")
	require.NoError(t, err)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     env.Brokers,
		Topic:       topic,
		GroupID:     "relay-it-consumer",
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, time.Minute)
	defer readCancel()

	for {
		msg, err := reader.ReadMessage(readCtx)
		require.NoError(t, err, "relay never delivered the event")
		if string(msg.Key) != o.ID.String() {
			continue
		}

		var ev order.OrderCreated
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		require.Equal(t, o.ID, ev.OrderID)
		require.Equal(t, userID, ev.UserID)
		require.Equal(t, order.EventOrderCreated, headerValue(msg.Headers, "event_type"))
		require.Equal(t, "integration", headerValue(msg.Headers, "source"))
		break
	}

	require.Eventually(t, func() bool {
		var status string
		err := pool.QueryRow(ctx,
			`SELECT status FROM outbox WHERE aggregate_id=$1 AND type=$2`,
			o.ID.String(), order.EventOrderCreated).Scan(&status)
		return err == nil && status == "sent"
	}, 30*time.Second, 250*time.Millisecond, "outbox row should be marked sent")
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
