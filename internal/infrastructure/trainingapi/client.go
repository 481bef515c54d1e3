// Package trainingapi is the typed client of the training-center REST API,
// the system of record behind the admin gateway.
package trainingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-training-admin/internal/config"
	"github.com/go-training-admin/internal/domain"
)

// maxBody bounds how much of an upstream response is read into memory.
const maxBody = 8 << 20

// APIError is a failed upstream call. Status is 0 when no response was received.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// DecodeError means the upstream answered 2xx with a body we could not read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Client talks to the training API. Per-resource clients hang off it.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	Learners      *Learners
	Trainers      *Resource[domain.Trainer]
	Programs      *Resource[domain.Program]
	Groups        *Groups
	Sessions      *Sessions
	Attendance    *Attendance
	Payments      *Payments
	Notifications *Notifications
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config) *Client {
	return New(cfg.UpstreamBaseURL, cfg.UpstreamAPIToken, &http.Client{Timeout: cfg.UpstreamTimeout})
}

// New builds a client for baseURL. token may be empty; httpClient nil uses a 10s timeout.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{baseURL: baseURL, token: token, http: httpClient}
	c.Learners = &Learners{Resource: newResource[domain.Learner](c, "/apprenants")}
	c.Trainers = newResource[domain.Trainer](c, "/formateurs")
	c.Programs = newResource[domain.Program](c, "/formations")
	c.Groups = &Groups{Resource: newResource[domain.Group](c, "/groupes")}
	c.Sessions = &Sessions{Resource: newResource[domain.TrainingSession](c, "/sessions")}
	c.Attendance = &Attendance{Resource: newResource[domain.AttendanceRecord](c, "/presences")}
	c.Payments = &Payments{Resource: newResource[domain.Payment](c, "/paiements")}
	c.Notifications = &Notifications{Resource: newResource[domain.Notification](c, "/notifications")}
	return c
}

// Ping checks that the upstream answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := chain(ctx, "ping",
		try("actuator", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.do(ctx, http.MethodGet, "/actuator/health", nil, nil, nil)
		}),
		try("health", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
		}),
	)
	return err
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded when non-nil
// and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	data, err := c.raw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeInto(data, path, out)
}

func decodeInto(data []byte, path string, out interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: snippet(data)}
	}
	return data, nil
}

// getList fetches a collection. The API returns either a bare array or a page object
// wrapping it under "content", "data" or "items".
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	data, err := c.raw(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return items, nil
}

func decodeList[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"content", "data", "items"} {
		if raw, ok := envelope[key]; ok {
			return decodeList[T](raw)
		}
	}
	return nil, fmt.Errorf("no list in response object")
}

// decodeCount reads either a bare number or an object carrying "count" (or "total").
func decodeCount(data []byte) (int, error) {
	data = bytes.TrimSpace(data)
	if n, err := strconv.Atoi(string(data)); err == nil {
		return n, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return 0, err
	}
	for _, key := range []string{"count", "total"} {
		if raw, ok := obj[key]; ok {
			var n int
			err := json.Unmarshal(raw, &n)
			return n, err
		}
	}
	return 0, fmt.Errorf("no count in response")
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

func snippet(b []byte) string {
	const max = 256
	s := string(bytes.TrimSpace(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
