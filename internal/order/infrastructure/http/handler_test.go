package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/order/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	order domain.Order
}

func (s *stubOrderRepo) Checkout(_ context.Context, _ int64, _ uuid.UUID, _ string, _ map[string]string, _ string, _ application.EventFn) (domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderRepo) Transition(_ context.Context, orderID uuid.UUID, _ map[string]string, _ string, fn application.TransitionFn, eventFn application.EventFn) (domain.Order, error) {
	if orderID != s.order.ID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o := s.order
	if _, err := fn(&o); err != nil {
		return domain.Order{}, err
	}
	if _, _, err := eventFn(o); err != nil {
		return domain.Order{}, err
	}
	s.order = o
	return o, nil
}

func (s *stubOrderRepo) Get(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	if orderID != s.order.ID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	if userID != s.order.UserID {
		return nil, nil
	}
	return []domain.Order{s.order}, nil
}

func testHandler(t *testing.T) (*Handler, domain.Order) {
	t.Helper()
	details := []domain.Detail{
		{BookID: 1, Title: "Book A", Quantity: 1, UnitPrice: decimal.RequireFromString("10"), Subtotal: decimal.RequireFromString("10")},
	}
	o, err := domain.NewOrder(uuid.New(), 42, details, 0, "ABCD2345", time.Now().UTC())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(&stubOrderRepo{order: o}, nil)
	return NewHandler(log, svc), o
}

func getOrderResponse(t *testing.T, h *Handler, path string) domain.Order {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var o domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&o))
	return o
}

func TestGetOrderClaimCodeVisibility(t *testing.T) {
	h, o := testHandler(t)

	got := getOrderResponse(t, h, "/"+o.ID.String())
	require.Empty(t, got.ClaimCode, "anonymous reads never see the code")

	got = getOrderResponse(t, h, "/"+o.ID.String()+"?user_id=7")
	require.Empty(t, got.ClaimCode, "other users never see the code")

	got = getOrderResponse(t, h, "/"+o.ID.String()+"?user_id=42")
	require.Equal(t, "ABCD2345", got.ClaimCode, "the owner can recover a lost code")
}

func TestListOrdersBlanksClaimCodes(t *testing.T) {
	h, o := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/?user_id=42", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
	require.Len(t, orders, 1)
	require.Equal(t, o.ID, orders[0].ID)
	require.Empty(t, orders[0].ClaimCode)
}

func TestGetOrderNotFound(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
