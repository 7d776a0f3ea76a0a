package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmehra2102/Bookstore-Order-System/internal/cart/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/cart/domain"
	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/go-chi/chi/v5"
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
		tracer:  otel.Tracer("cart-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Post("/items/{bookID}/increase", h.increaseItem)
	r.Post("/items/{bookID}/decrease", h.decreaseItem)
	r.Delete("/items/{bookID}", h.removeItem)
	return r
}

type addItemReq struct {
	UserID   int64 `json:"user_id"`
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	cart, err := h.service.GetCart(ctx, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddItem")
	defer span.End()

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	cart, err := h.service.AddItem(ctx, req.UserID, req.BookID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) increaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "IncreaseItem")
	defer span.End()

	userID, bookID, ok := lineParams(w, r)
	if !ok {
		return
	}
	cart, err := h.service.IncreaseItem(ctx, userID, bookID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) decreaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DecreaseItem")
	defer span.End()

	userID, bookID, ok := lineParams(w, r)
	if !ok {
		return
	}
	cart, err := h.service.DecreaseItem(ctx, userID, bookID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveItem")
	defer span.End()

	userID, bookID, ok := lineParams(w, r)
	if !ok {
		return
	}
	cart, err := h.service.RemoveItem(ctx, userID, bookID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func lineParams(w http.ResponseWriter, r *http.Request) (userID, bookID int64, ok bool) {
	userID, ok = userIDParam(w, r)
	if !ok {
		return 0, 0, false
	}
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, bookID, true
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrQuantityAtMinimum):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, catalog.ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrInsufficientStock):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("cart request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
