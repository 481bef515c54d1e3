package handler

import (
	"net/http"
	"time"

	"github.com/go-training-admin/internal/application/schedule"
	"github.com/go-training-admin/internal/domain"
)

// ScheduleHandler handles training-session endpoints under /schedule.
type ScheduleHandler struct {
	svc schedule.Service
	now func() time.Time
}

func NewScheduleHandler(svc schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, now: time.Now}
}

// List picks one view: ?groupeId=, ?formateurId=, ?debut=&fin=, or the paged list.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	from, ok := queryDate(w, r, "debut")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "fin")
	if !ok {
		return
	}
	var (
		sessions []domain.TrainingSession
		err      error
	)
	switch {
	case queryInt64(r, "groupeId") > 0:
		sessions, err = h.svc.ByGroup(r.Context(), queryInt64(r, "groupeId"))
	case queryInt64(r, "formateurId") > 0:
		sessions, err = h.svc.ByTrainer(r.Context(), queryInt64(r, "formateurId"))
	case !from.IsZero() || !to.IsZero():
		if from.IsZero() || to.IsZero() {
			writeError(w, http.StatusBadRequest, "debut and fin are both required")
			return
		}
		sessions, err = h.svc.ByDateRange(r.Context(), from, to)
	default:
		result, err := h.svc.List(r.Context(), listQuery(r))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Week returns the Monday-to-Sunday week around ?date= (today when absent).
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	day, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	ref := h.now()
	if !day.IsZero() {
		ref = day.Time
	}
	days, err := h.svc.Week(r.Context(), ref)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.TrainingSession
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.TrainingSession
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "session deleted"})
}
