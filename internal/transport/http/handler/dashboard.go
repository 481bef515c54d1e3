package handler

import (
	"net/http"

	"github.com/go-training-admin/internal/application/dashboard"
)

// DashboardHandler serves the home-screen statistics.
type DashboardHandler struct {
	svc dashboard.Service
}

func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Refresh drops the cached figures and recomputes them.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Refresh(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
