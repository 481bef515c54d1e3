package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type upstreamPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	upstream upstreamPinger
}

func NewHealthHandler(upstream upstreamPinger) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// Ping answers "ping" locally and "upstream" by probing the training API.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "upstream":
		if h.upstream == nil {
			writeError(w, http.StatusServiceUnavailable, "upstream not configured")
			return
		}
		if err := h.upstream.Ping(r.Context()); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "upstream reachable"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
