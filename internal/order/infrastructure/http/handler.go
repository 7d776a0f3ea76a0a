package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/order/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/order/domain"
	"github.com/dmehra2102/Bookstore-Order-System/pkg/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/checkout", h.checkout)
	r.Get("/", h.listOrders)
	r.Get("/{id}", h.getOrder)
	r.Post("/{id}/complete", h.completeOrder)
	r.Post("/{id}/cancel", h.cancelOrder)
	return r
}

type checkoutReq struct {
	UserID int64 `json:"user_id"`
}

type completeReq struct {
	ClaimCode string `json:"claim_code"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	o, err := h.service.Checkout(ctx, req.UserID, sourceHeaders(), traceparent(ctx, r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	orders, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// Claim codes travel only in the checkout response.
	for i := range orders {
		orders[i].ClaimCode = ""
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// The owner can recover a lost claim code; everyone else gets a
	// blank field.
	uid, uidErr := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if uidErr != nil || uid != o.UserID {
		o.ClaimCode = ""
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompleteOrder")
	defer span.End()

	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	var req completeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClaimCode == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	o, err := h.service.Complete(ctx, id, req.ClaimCode, sourceHeaders(), traceparent(ctx, r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	o.ClaimCode = ""
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.service.Cancel(ctx, id, sourceHeaders(), traceparent(ctx, r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	o.ClaimCode = ""
	writeJSON(w, http.StatusOK, o)
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return id, true
}

func sourceHeaders() map[string]string {
	return map[string]string{"source": "bookstore-server"}
}

func traceparent(ctx context.Context, r *http.Request) string {
	if tp := r.Header.Get(tracing.TraceparentHeader); tp != "" {
		return tp
	}
	return tracing.Traceparent(ctx)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrClaimCodeMismatch),
		errors.Is(err, catalog.ErrInsufficientStock):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("order request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
