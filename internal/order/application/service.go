package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
)

const claimCodeAttempts = 3

type Service struct {
	repo  OrderRepository
	cache CacheInvalidator
}

func NewService(repo OrderRepository, cache CacheInvalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// Checkout converts the user's cart into a Pending order. The repository
// transaction makes it all-or-nothing; a duplicate claim code retries
// with a fresh one.
func (s *Service) Checkout(ctx context.Context, userID int64, headers map[string]string, traceparent string) (domain.Order, error) {
	eventFn := func(o domain.Order) (string, []byte, error) {
		payload, err := json.Marshal(domain.OrderCreated{
			OrderID:   o.ID,
			UserID:    o.UserID,
			BookCount: o.BookCount,
			Total:     o.Total,
		})
		return domain.EventOrderCreated, payload, err
	}

	var lastErr error
	for attempt := 0; attempt < claimCodeAttempts; attempt++ {
		code, err := domain.NewClaimCode()
		if err != nil {
			return domain.Order{}, err
		}
		o, err := s.repo.Checkout(ctx, userID, uuid.New(), code, headers, traceparent, eventFn)
		if err == nil {
			s.invalidateDetails(ctx, o)
			return o, nil
		}
		if !errors.Is(err, domain.ErrDuplicateClaimCode) {
			return domain.Order{}, err
		}
		lastErr = err
	}
	return domain.Order{}, lastErr
}

// Complete marks a Pending order picked up once the supplied claim code
// matches.
func (s *Service) Complete(ctx context.Context, orderID uuid.UUID, claimCode string, headers map[string]string, traceparent string) (domain.Order, error) {
	now := time.Now().UTC()
	return s.repo.Transition(ctx, orderID, headers, traceparent,
		func(o *domain.Order) (bool, error) {
			return false, o.Complete(claimCode, now)
		},
		func(o domain.Order) (string, []byte, error) {
			payload, err := json.Marshal(domain.OrderCompleted{OrderID: o.ID, UserID: o.UserID})
			return domain.EventOrderCompleted, payload, err
		})
}

// Cancel voids a Pending order and returns its details to stock.
func (s *Service) Cancel(ctx context.Context, orderID uuid.UUID, headers map[string]string, traceparent string) (domain.Order, error) {
	now := time.Now().UTC()
	o, err := s.repo.Transition(ctx, orderID, headers, traceparent,
		func(o *domain.Order) (bool, error) {
			return true, o.Cancel(now)
		},
		func(o domain.Order) (string, []byte, error) {
			payload, err := json.Marshal(domain.OrderCancelled{OrderID: o.ID, UserID: o.UserID})
			return domain.EventOrderCancelled, payload, err
		})
	if err != nil {
		return domain.Order{}, err
	}
	s.invalidateDetails(ctx, o)
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) invalidateDetails(ctx context.Context, o domain.Order) {
	if s.cache == nil {
		return
	}
	ids := make([]int64, 0, len(o.Details))
	for _, d := range o.Details {
		ids = append(ids, d.BookID)
	}
	s.cache.Invalidate(ctx, ids...)
}
