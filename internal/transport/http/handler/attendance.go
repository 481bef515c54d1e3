package handler

import (
	"net/http"

	"github.com/go-training-admin/internal/application/attendance"
	"github.com/go-training-admin/internal/domain"
)

// AttendanceHandler handles attendance endpoints.
type AttendanceHandler struct {
	svc attendance.Service
}

func NewAttendanceHandler(svc attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// Sheet is the roll-call view of one session.
func (h *AttendanceHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sessionId")
	if !ok {
		return
	}
	sheet, err := h.svc.Sheet(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (h *AttendanceHandler) RecordBulk(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	records, err := h.svc.RecordBulk(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, records)
}

func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	var in domain.AttendanceRecord
	if !decodeBody(w, r, &in) {
		return
	}
	rec, err := h.svc.Record(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.AttendanceRecord
	if !decodeBody(w, r, &in) {
		return
	}
	rec, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "attendance record deleted"})
}

func (h *AttendanceHandler) ByLearner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "learnerId")
	if !ok {
		return
	}
	history, err := h.svc.ByLearner(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *AttendanceHandler) Rate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.Rate(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"attendance_rate": rate})
}
