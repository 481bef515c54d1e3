package handler

import (
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/go-training-admin/internal/application/export"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/transport/http/middleware"
)

// ExportHandler handles CSV export endpoints.
type ExportHandler struct {
	svc export.Service
}

func NewExportHandler(svc export.Service) *ExportHandler { return &ExportHandler{svc: svc} }

func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Kind domain.ExportKind `json:"kind"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.svc.Create(r.Context(), req.Kind, claims.AdminID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExportHandler) List(w http.ResponseWriter, r *http.Request) {
	exports, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exports)
}

func (h *ExportHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Download streams the CSV through the gateway for clients that cannot follow presigned URLs.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, e, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(e.Object)+`"`)
	_, _ = io.Copy(w, rc)
}

func (h *ExportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "export deleted"})
}
