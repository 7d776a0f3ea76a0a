package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
)

// EventFn builds the outbox payload for the order the repository has just
// assembled inside its transaction.
type EventFn func(o domain.Order) (eventType string, payload []byte, err error)

// TransitionFn applies a guarded state change to the locked order and
// reports whether the order's details should be restocked.
type TransitionFn func(o *domain.Order) (restock bool, err error)

type OrderRepository interface {
	// Checkout atomically snapshots the user's cart into a new order,
	// decrements stock, writes the outbox event, and clears the cart.
	Checkout(ctx context.Context, userID int64, orderID uuid.UUID, claimCode string, headers map[string]string, traceparent string, eventFn EventFn) (domain.Order, error)
	// Transition locks the order, applies fn, persists the new status
	// and the outbox event in the same transaction.
	Transition(ctx context.Context, orderID uuid.UUID, headers map[string]string, traceparent string, fn TransitionFn, eventFn EventFn) (domain.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

// CacheInvalidator drops stale catalog cache entries after stock moves.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, bookIDs ...int64)
}
