package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	announcement "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/notification/domain"
	order "github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConsumer() *Consumer {
	return &Consumer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestToNotificationOrderEvents(t *testing.T) {
	c := testConsumer()
	payload, err := json.Marshal(order.OrderCreated{OrderID: uuid.New(), UserID: 9})
	require.NoError(t, err)

	n, ok := c.toNotification(order.EventOrderCreated, payload)
	require.True(t, ok)
	require.Equal(t, order.EventOrderCreated, n.Kind)
	require.Equal(t, int64(9), n.UserID)
}

func TestToNotificationAnnouncementWindow(t *testing.T) {
	c := testConsumer()
	now := time.Now().UTC()

	open, err := json.Marshal(announcement.AnnouncementPublished{
		AnnouncementID: 1,
		Title:          "Sale",
		StartsAt:       now.Add(-time.Hour),
		EndsAt:         now.Add(time.Hour),
	})
	require.NoError(t, err)
	n, ok := c.toNotification(announcement.EventAnnouncementPublished, open)
	require.True(t, ok)
	require.Equal(t, domain.BroadcastUserID, n.UserID)

	future, err := json.Marshal(announcement.AnnouncementPublished{
		AnnouncementID: 2,
		Title:          "Next week",
		StartsAt:       now.Add(24 * time.Hour),
		EndsAt:         now.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	_, ok = c.toNotification(announcement.EventAnnouncementPublished, future)
	require.False(t, ok, "announcements outside their window stay quiet")
}

func TestToNotificationRejectsGarbage(t *testing.T) {
	c := testConsumer()

	_, ok := c.toNotification("SomethingElse", []byte(`{}`))
	require.False(t, ok)

	_, ok = c.toNotification(order.EventOrderCreated, []byte(`not json`))
	require.False(t, ok)
}
