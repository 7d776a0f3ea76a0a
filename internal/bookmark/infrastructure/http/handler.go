package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/domain"
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
		tracer:  otel.Tracer("bookmark-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Put("/{bookID}", h.add)
	r.Delete("/{bookID}", h.remove)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListBookmarks")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	marks, err := h.service.List(ctx, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddBookmark")
	defer span.End()

	userID, bookID, ok := params(w, r)
	if !ok {
		return
	}
	if err := h.service.Add(ctx, userID, bookID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveBookmark")
	defer span.End()

	userID, bookID, ok := params(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(ctx, userID, bookID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func params(w http.ResponseWriter, r *http.Request) (userID, bookID int64, ok bool) {
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
	case errors.Is(err, domain.ErrBookmarkNotFound),
		errors.Is(err, catalog.ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("bookmark request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
