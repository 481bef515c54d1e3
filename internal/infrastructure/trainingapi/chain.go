package trainingapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-training-admin/internal/domain"
)

// attempt is one way of obtaining a result from the upstream.
type attempt[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
}

func try[T any](name string, run func(ctx context.Context) (T, error)) attempt[T] {
	return attempt[T]{name: name, run: run}
}

// chain runs attempts in order and returns the first success. A failed attempt falls
// through to the next one unless the context is done, the upstream rejected our
// credentials, or a 2xx body could not be decoded. There is no retry or backoff.
func chain[T any](ctx context.Context, op string, attempts ...attempt[T]) (T, error) {
	var zero T
	errs := make([]error, 0, len(attempts))
	for i, a := range attempts {
		v, err := a.run(ctx)
		if err == nil {
			if i > 0 {
				slog.Debug("upstream fallback succeeded", "op", op, "attempt", a.name)
			}
			return v, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.name, err))
		if !canFallBack(ctx, err) {
			break
		}
		if i < len(attempts)-1 {
			slog.Debug("upstream attempt failed, falling back", "op", op, "attempt", a.name, "err", err)
		}
	}
	return zero, classify(op, errs)
}

func canFallBack(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return false
	}
	switch statusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return false
	}
	return true
}

// wrap classifies the error of a single, non-chained call.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return classify(op, []error{err})
}

// classify attaches a domain sentinel to the joined attempt errors: ErrNotFound when every
// attempt was a 404, otherwise derived from the last attempt's status.
func classify(op string, errs []error) error {
	allNotFound := true
	for _, e := range errs {
		if statusOf(e) != http.StatusNotFound {
			allNotFound = false
			break
		}
	}
	last := statusOf(errs[len(errs)-1])
	var sentinel error
	switch {
	case allNotFound:
		sentinel = domain.ErrNotFound
	case last == http.StatusConflict:
		sentinel = domain.ErrConflict
	case last == http.StatusUnauthorized || last == http.StatusForbidden:
		sentinel = domain.ErrUpstream
	case last >= 400 && last < 500 && last != http.StatusNotFound:
		sentinel = domain.ErrBadRequest
	default:
		sentinel = domain.ErrUpstream
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, errors.Join(errs...))
}

// statusOf returns the upstream HTTP status carried by err, or 0.
func statusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// filter keeps the items matching keep. It never returns nil.
func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
