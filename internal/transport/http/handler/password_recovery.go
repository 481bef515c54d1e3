package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-training-admin/internal/application/recovery"
)

// PasswordRecoveryHandler handles the emailed-code password reset flow.
type PasswordRecoveryHandler struct {
	svc recovery.Service
}

func NewPasswordRecoveryHandler(svc recovery.Service) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc}
}

func (h *PasswordRecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req recovery.RequestInput
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.svc.Request(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		// Same answer whether or not the address belongs to an account.
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "if the address is known, a code has been sent"})
	case "reset":
		var req recovery.ResetInput
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.svc.Reset(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
