package watch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the catalog change feed as server-sent events.
type Handler struct {
	logger  *slog.Logger
	watcher *Watcher
}

// NewHandler constructs the SSE handler.
func NewHandler(logger *slog.Logger, watcher *Watcher) *Handler {
	return &Handler{logger: logger, watcher: watcher}
}

// MountRoutes registers the feed endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleFeed)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
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

	events, stop := h.watcher.Subscribe(r.Context(), "groupes", "categories")
	defer stop()

	for evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			h.logger.Error("marshal catalog event", slog.Any("error", err))
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Collection, payload)
		flusher.Flush()
	}
}
