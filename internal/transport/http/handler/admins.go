package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-training-admin/internal/application/admin"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/transport/http/middleware"
)

// AdminHandler handles back-office account endpoints.
type AdminHandler struct {
	svc admin.Service
}

func NewAdminHandler(svc admin.Service) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	result, err := h.svc.List(r.Context(), r.URL.Query().Get("search"), page, perPage)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.AdminID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "admin deleted"})
}

// ChangePassword changes the caller's own password.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req admin.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), claims.AdminID, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password changed"})
}
