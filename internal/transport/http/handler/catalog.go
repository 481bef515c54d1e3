package handler

import (
	"context"
	"net/http"

	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/pkg/paging"
)

type catalogService[T any] interface {
	List(ctx context.Context, q catalog.Query) (paging.Page[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, v *T) (*T, error)
	Update(ctx context.Context, id int64, v *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogHandler serves plain CRUD over one upstream collection (trainers, programs).
type CatalogHandler[T any] struct {
	svc  catalogService[T]
	noun string
}

func NewCatalogHandler[T any](svc catalogService[T], noun string) *CatalogHandler[T] {
	return &CatalogHandler[T]{svc: svc, noun: noun}
}

func listQuery(r *http.Request) catalog.Query {
	page, perPage := parsePagination(r)
	return catalog.Query{Search: r.URL.Query().Get("search"), Page: page, PerPage: perPage}
}

func (h *CatalogHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), listQuery(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CatalogHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var in T
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *CatalogHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in T
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CatalogHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: h.noun + " deleted"})
}
