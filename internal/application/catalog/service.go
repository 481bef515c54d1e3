// Package catalog is the generic CRUD service over one upstream collection, with
// validation, text search and in-memory paging.
package catalog

import (
	"context"
	"strings"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
	"github.com/go-training-admin/internal/pkg/validate"
)

// Query narrows a list. Search is matched case-insensitively by the service's matcher.
type Query struct {
	Search  string
	Page    int
	PerPage int
}

type store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, v *T) (*T, error)
	Update(ctx context.Context, id int64, v *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Matcher reports whether item matches the lower-cased search needle.
type Matcher[T any] func(item T, needle string) bool

type Service[T any] struct {
	store store[T]
	match Matcher[T]
}

func New[T any](s store[T], match Matcher[T]) *Service[T] {
	return &Service[T]{store: s, match: match}
}

func (s *Service[T]) List(ctx context.Context, q Query) (paging.Page[T], error) {
	return s.ListWhere(ctx, q, nil)
}

// ListWhere is List with an extra predicate applied before searching; keep may be nil.
func (s *Service[T]) ListWhere(ctx context.Context, q Query, keep func(T) bool) (paging.Page[T], error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return paging.Paginate(s.Filter(items, q.Search, keep), q.Page, q.PerPage), nil
}

// Filter applies keep and the search needle. It never returns nil.
func (s *Service[T]) Filter(items []T, search string, keep func(T) bool) []T {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep != nil && !keep(it) {
			continue
		}
		if needle != "" && s.match != nil && !s.match(it, needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *Service[T]) All(ctx context.Context) ([]T, error) {
	return s.store.List(ctx)
}

func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.store.Get(ctx, id)
}

func (s *Service[T]) Create(ctx context.Context, v *T) (*T, error) {
	if err := validate.Struct(v); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, v)
}

func (s *Service[T]) Update(ctx context.Context, id int64, v *T) (*T, error) {
	if id <= 0 {
		return nil, domain.ErrBadRequest
	}
	if err := validate.Struct(v); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, v)
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Contains reports whether any of fields contains needle, ignoring case. needle must already
// be lower-cased.
func Contains(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func MatchTrainer(t domain.Trainer, needle string) bool {
	return Contains(needle, t.FirstName, t.LastName, t.Email, t.Speciality)
}

func MatchProgram(p domain.Program, needle string) bool {
	return Contains(needle, p.Title, p.Description)
}
