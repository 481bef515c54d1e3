package handler

import (
	"net/http"
	"strings"

	"github.com/go-training-admin/internal/application/payment"
	"github.com/go-training-admin/internal/domain"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler { return &PaymentHandler{svc: svc} }

// List accepts ?apprenantId=, ?statut=, ?debut=, ?fin=, ?search=, ?page= and ?per_page=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	from, ok := queryDate(w, r, "debut")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "fin")
	if !ok {
		return
	}
	page, perPage := parsePagination(r)
	q := r.URL.Query()
	result, err := h.svc.List(r.Context(), payment.Filter{
		LearnerID: queryInt64(r, "apprenantId"),
		Status:    domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(q.Get("statut")))),
		From:      from,
		To:        to,
		Search:    q.Get("search"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Payment
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.Payment
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "payment deleted"})
}
