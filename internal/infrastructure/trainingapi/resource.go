package trainingapi

import (
	"context"
	"net/http"
	"strings"
)

// Resource is the plain CRUD surface of one upstream collection.
type Resource[T any] struct {
	c    *Client
	path string
	name string
}

func newResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path, name: strings.TrimPrefix(path, "/")}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	items, err := getList[T](ctx, r.c, r.path, nil)
	return items, wrap(r.name+".list", err)
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var v T
	if err := r.c.do(ctx, http.MethodGet, idPath(r.path, id), nil, nil, &v); err != nil {
		return nil, wrap(r.name+".get", err)
	}
	return &v, nil
}

// Create posts v and returns the stored record, or v itself when the API answers without a body.
func (r *Resource[T]) Create(ctx context.Context, v *T) (*T, error) {
	var out T
	data, err := r.c.raw(ctx, http.MethodPost, r.path, nil, v)
	if err != nil {
		return nil, wrap(r.name+".create", err)
	}
	if err := decodeInto(data, r.path, &out); err != nil {
		return nil, wrap(r.name+".create", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return v, nil
	}
	return &out, nil
}

// Update replaces the record and returns the stored version, or v when no body comes back.
func (r *Resource[T]) Update(ctx context.Context, id int64, v *T) (*T, error) {
	var out T
	data, err := r.c.raw(ctx, http.MethodPut, idPath(r.path, id), nil, v)
	if err != nil {
		return nil, wrap(r.name+".update", err)
	}
	if err := decodeInto(data, r.path, &out); err != nil {
		return nil, wrap(r.name+".update", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return v, nil
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return wrap(r.name+".delete", r.c.do(ctx, http.MethodDelete, idPath(r.path, id), nil, nil, nil))
}
