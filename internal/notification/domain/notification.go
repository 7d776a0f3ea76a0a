package domain

import (
	"encoding/json"
	"time"
)

// Notification is a delivery-ready copy of a domain event. UserID zero
// means broadcast to every connected subscriber.
type Notification struct {
	Kind    string          `json:"kind"`
	UserID  int64           `json:"user_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

const BroadcastUserID int64 = 0
