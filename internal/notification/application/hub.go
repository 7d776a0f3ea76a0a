package application

import (
	"log/slog"
	"sync"

	"github.com/dmehra2102/Bookstore-Order-System/internal/notification/domain"
)

const subscriberBuffer = 16

// Hub owns the per-user connection registry. Delivery is best effort:
// a subscriber that cannot keep up loses notifications rather than
// blocking the consumer.
type Hub struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[int64]map[chan domain.Notification]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[int64]map[chan domain.Notification]struct{}),
	}
}

// Subscribe registers a listener for one user's notifications plus
// broadcasts. The returned cancel must be called when the listener goes
// away.
func (h *Hub) Subscribe(userID int64) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan domain.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(n domain.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n.UserID == domain.BroadcastUserID {
		for _, set := range h.subs {
			for ch := range set {
				h.send(ch, n)
			}
		}
		return
	}
	for ch := range h.subs[n.UserID] {
		h.send(ch, n)
	}
}

func (h *Hub) send(ch chan domain.Notification, n domain.Notification) {
	select {
	case ch <- n:
	default:
		h.log.Warn("notification dropped, subscriber too slow", "kind", n.Kind, "user_id", n.UserID)
	}
}

// Subscribers reports the number of open subscriptions, for tests and
// introspection.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, set := range h.subs {
		total += len(set)
	}
	return total
}
