package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders          map[uuid.UUID]domain.Order
	cartDetails     []domain.Detail
	completedOrders int
	duplicateCodes  int
	cartCleared     bool
	restocked       bool
	lastEventType   string
	lastPayload     []byte
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (f *fakeOrderRepo) Checkout(_ context.Context, userID int64, orderID uuid.UUID, claimCode string, _ map[string]string, _ string, eventFn EventFn) (domain.Order, error) {
	if f.duplicateCodes > 0 {
		f.duplicateCodes--
		return domain.Order{}, domain.ErrDuplicateClaimCode
	}
	o, err := domain.NewOrder(orderID, userID, f.cartDetails, f.completedOrders, claimCode, time.Now().UTC())
	if err != nil {
		return domain.Order{}, err
	}
	eventType, payload, err := eventFn(o)
	if err != nil {
		return domain.Order{}, err
	}
	f.lastEventType = eventType
	f.lastPayload = payload
	f.orders[o.ID] = o
	f.cartCleared = true
	return o, nil
}

func (f *fakeOrderRepo) Transition(_ context.Context, orderID uuid.UUID, _ map[string]string, _ string, fn TransitionFn, eventFn EventFn) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	restock, err := fn(&o)
	if err != nil {
		return domain.Order{}, err
	}
	eventType, payload, err := eventFn(o)
	if err != nil {
		return domain.Order{}, err
	}
	f.lastEventType = eventType
	f.lastPayload = payload
	f.restocked = restock
	f.orders[orderID] = o
	return o, nil
}

func (f *fakeOrderRepo) Get(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeInvalidator struct {
	ids []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, bookIDs ...int64) {
	f.ids = append(f.ids, bookIDs...)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cartOf40() []domain.Detail {
	return []domain.Detail{
		{BookID: 1, Title: "Book A", Quantity: 2, UnitPrice: d("10"), Subtotal: d("20")},
		{BookID: 2, Title: "Book B", Quantity: 1, UnitPrice: d("20"), Subtotal: d("20")},
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, nil)

	_, err := svc.Checkout(context.Background(), 7, nil, "")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.Empty(t, repo.orders)
	require.Empty(t, repo.lastEventType)
}

func TestCheckoutSnapshotsCart(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	o, err := svc.Checkout(context.Background(), 7, map[string]string{"source": "test"}, "")
	require.NoError(t, err)

	require.Equal(t, domain.StatusPending, o.Status)
	require.Equal(t, 3, o.BookCount)
	require.True(t, o.Total.Equal(d("40")), "total %s", o.Total)
	require.Len(t, o.ClaimCode, domain.ClaimCodeLength)
	require.True(t, repo.cartCleared)
	require.Equal(t, []int64{1, 2}, inv.ids)

	require.Equal(t, domain.EventOrderCreated, repo.lastEventType)
	var ev domain.OrderCreated
	require.NoError(t, json.Unmarshal(repo.lastPayload, &ev))
	require.Equal(t, o.ID, ev.OrderID)
	require.Equal(t, int64(7), ev.UserID)
	require.Equal(t, 3, ev.BookCount)
	require.True(t, ev.Total.Equal(d("40")))
}

func TestCheckoutRetriesDuplicateClaimCodes(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	repo.duplicateCodes = 2
	svc := NewService(repo, nil)

	o, err := svc.Checkout(context.Background(), 7, nil, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, o.Status)
}

func TestCheckoutGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	repo.duplicateCodes = claimCodeAttempts
	svc := NewService(repo, nil)

	_, err := svc.Checkout(context.Background(), 7, nil, "")
	require.ErrorIs(t, err, domain.ErrDuplicateClaimCode)
}

func TestCompleteExactlyOnce(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	svc := NewService(repo, nil)
	ctx := context.Background()

	o, err := svc.Checkout(ctx, 7, nil, "")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, o.ID, "WRONG123", nil, "")
	require.ErrorIs(t, err, domain.ErrClaimCodeMismatch)
	stored, _ := repo.Get(ctx, o.ID)
	require.Equal(t, domain.StatusPending, stored.Status)

	done, err := svc.Complete(ctx, o.ID, o.ClaimCode, nil, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, done.Status)
	require.Equal(t, domain.EventOrderCompleted, repo.lastEventType)
	require.False(t, repo.restocked)

	_, err = svc.Complete(ctx, o.ID, o.ClaimCode, nil, "")
	require.ErrorIs(t, err, domain.ErrNotPending)
	stored, _ = repo.Get(ctx, o.ID)
	require.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestCancelRestocksAndIsTerminal(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)
	ctx := context.Background()

	o, err := svc.Checkout(ctx, 7, nil, "")
	require.NoError(t, err)
	inv.ids = nil

	cancelled, err := svc.Cancel(ctx, o.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.True(t, repo.restocked)
	require.Equal(t, domain.EventOrderCancelled, repo.lastEventType)
	require.Equal(t, []int64{1, 2}, inv.ids)

	_, err = svc.Complete(ctx, o.ID, o.ClaimCode, nil, "")
	require.ErrorIs(t, err, domain.ErrNotPending)
	_, err = svc.Cancel(ctx, o.ID, nil, "")
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestCancelCompletedFails(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.cartDetails = cartOf40()
	svc := NewService(repo, nil)
	ctx := context.Background()

	o, err := svc.Checkout(ctx, 7, nil, "")
	require.NoError(t, err)
	_, err = svc.Complete(ctx, o.ID, o.ClaimCode, nil, "")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, o.ID, nil, "")
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestGetUnknownOrder(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), nil)
	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
