package handler

import (
	"net/http"

	"github.com/go-training-admin/internal/application/group"
	"github.com/go-training-admin/internal/domain"
)

// GroupHandler handles group endpoints.
type GroupHandler struct {
	svc group.Service
}

func NewGroupHandler(svc group.Service) *GroupHandler { return &GroupHandler{svc: svc} }

// List pages all groups, or returns the groups of one program when ?formationId= is set.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	if programID := queryInt64(r, "formationId"); programID > 0 {
		groups, err := h.svc.ByProgram(r.Context(), programID)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
		return
	}
	result, err := h.svc.List(r.Context(), listQuery(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Group
	if !decodeBody(w, r, &in) {
		return
	}
	g, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.Group
	if !decodeBody(w, r, &in) {
		return
	}
	g, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "group deleted"})
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	learners, err := h.svc.Members(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, learners)
}

func (h *GroupHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sessions, err := h.svc.Schedule(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
