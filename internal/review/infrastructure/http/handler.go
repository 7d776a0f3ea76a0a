package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	catalog "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/domain"
	"github.com/dmehra2102/Bookstore-Order-System/internal/review/application"
	"github.com/dmehra2102/Bookstore-Order-System/internal/review/domain"
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
		tracer:  otel.Tracer("review-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listByBook)
	r.Post("/", h.write)
	r.Delete("/{bookID}", h.remove)
	return r
}

type writeReq struct {
	UserID int64  `json:"user_id"`
	BookID int64  `json:"book_id"`
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

func (h *Handler) listByBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListReviews")
	defer span.End()

	bookID, err := strconv.ParseInt(r.URL.Query().Get("book_id"), 10, 64)
	if err != nil || bookID <= 0 {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}
	reviews, err := h.service.ListByBook(ctx, bookID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "WriteReview")
	defer span.End()

	var req writeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	review, err := h.service.Write(ctx, domain.Review{
		BookID: req.BookID,
		UserID: req.UserID,
		Rating: req.Rating,
		Body:   req.Body,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveReview")
	defer span.End()

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(ctx, userID, bookID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRating):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrReviewNotFound),
		errors.Is(err, catalog.ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("review request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
