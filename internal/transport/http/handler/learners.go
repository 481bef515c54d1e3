package handler

import (
	"net/http"
	"strings"

	"github.com/go-training-admin/internal/application/learner"
	"github.com/go-training-admin/internal/domain"
)

// LearnerHandler handles learner endpoints.
type LearnerHandler struct {
	svc learner.Service
}

func NewLearnerHandler(svc learner.Service) *LearnerHandler { return &LearnerHandler{svc: svc} }

// List accepts ?statut=, ?groupeId=, ?search=, ?page= and ?per_page=.
func (h *LearnerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	q := r.URL.Query()
	result, err := h.svc.List(r.Context(), learner.Filter{
		Status:  domain.LearnerStatus(strings.ToUpper(strings.TrimSpace(q.Get("statut")))),
		GroupID: queryInt64(r, "groupeId"),
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LearnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LearnerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *LearnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Learner
	if !decodeBody(w, r, &in) {
		return
	}
	l, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *LearnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.Learner
	if !decodeBody(w, r, &in) {
		return
	}
	l, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LearnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "learner deleted"})
}
