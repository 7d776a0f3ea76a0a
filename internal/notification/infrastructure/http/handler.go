package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmehra2102/Bookstore-Order-System/internal/notification/application"
	"github.com/go-chi/chi/v5"
)

// Handler streams a user's notifications over server-sent events.
type Handler struct {
	log *slog.Logger
	hub *application.Hub
}

func NewHandler(log *slog.Logger, hub *application.Hub) *Handler {
	return &Handler{log: log, hub: hub}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/stream", h.stream)
	return r
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.hub.Subscribe(userID)
	defer cancel()

	h.log.Info("notification stream opened", "user_id", userID)
	for {
		select {
		case <-r.Context().Done():
			h.log.Info("notification stream closed", "user_id", userID)
			return
		case n := <-ch:
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Kind, data)
			flusher.Flush()
		}
	}
}
