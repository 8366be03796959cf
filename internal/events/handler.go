package events

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

// Handler streams change notifications as server-sent events.
type Handler struct {
	hub        *Hub
	logger     *slog.Logger
	heartbeat  time.Duration
	maxClients int
	done       chan struct{}
	closeOnce  sync.Once
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHeartbeat sets the keep-alive interval.
func WithHeartbeat(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// WithMaxClients caps concurrent streams; zero means unlimited.
func WithMaxClients(n int) HandlerOption {
	return func(h *Handler) { h.maxClients = n }
}

// NewHandler constructs the stream handler.
func NewHandler(logger *slog.Logger, hub *Hub, opts ...HandlerOption) *Handler {
	h := &Handler{hub: hub, logger: logger, heartbeat: 30 * time.Second, maxClients: 256, done: make(chan struct{})}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Close ends every open stream. Safe to call more than once.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// MountRoutes registers the stream endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.stream)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Streaming unsupported", "response writer cannot flush")
		return
	}
	if h.maxClients > 0 && h.hub.Subscribers() >= h.maxClients {
		w.Header().Set("Retry-After", "5")
		httpx.Problem(w, http.StatusServiceUnavailable, "Too many listeners", "maximum number of change streams reached")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	// streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	w.WriteHeader(http.StatusOK)

	clientID := uuid.NewString()
	ctx := r.Context()
	changes := h.hub.Subscribe(ctx, 64)
	h.logger.Debug("change stream opened", slog.String("client", clientID))
	defer h.logger.Debug("change stream closed", slog.String("client", clientID))

	writeEvent(w, "connected", "", fmt.Sprintf(`{"client":%q}`, clientID))
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			writeEvent(w, "heartbeat", "", fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()))
			flusher.Flush()
		case change, ok := <-changes:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				h.logger.Error("encode change", slog.Any("error", err))
				continue
			}
			writeEvent(w, "change", fmt.Sprintf("%d", change.At.UnixNano()), string(data))
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, event, id, data string) {
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
