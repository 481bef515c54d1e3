package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates on the training API.
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ReadFlag is the read marker of a notification. The training API sends it as a
// boolean, as 0/1, or as a string of either; null means unread.
type ReadFlag bool

func (f *ReadFlag) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(b)), `"`))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid read flag %s", b)
	}
	return nil
}

// Ref is a nested {"id": n} reference to another record.
type Ref struct {
	ID int64 `json:"id"`
}

// refID prefers the flat id and falls back to the nested reference.
func refID(flat int64, nested *Ref) int64 {
	if flat != 0 || nested == nil {
		return flat
	}
	return nested.ID
}

// Timestamp is an instant that tolerates the several layouts the training API emits,
// including epoch milliseconds. It encodes as RFC3339, or null when zero.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", b)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseTimestamp parses s with the first matching known layout. Layouts without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q: %w", s, ErrBadRequest)
}

// Date is a calendar day. It accepts full timestamps on input and always encodes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string (or any accepted timestamp layout).
func ParseDate(s string) (Date, error) {
	ts, err := ParseTimestamp(s)
	if err != nil {
		return Date{}, err
	}
	if ts.IsZero() {
		return Date{}, nil
	}
	return NewDate(ts), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var ts Timestamp
	if err := ts.UnmarshalJSON(b); err != nil {
		return err
	}
	if ts.IsZero() {
		d.Time = time.Time{}
		return nil
	}
	*d = NewDate(ts.Time)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is strictly before other. Zero dates are never before anything.
func (d Date) Before(other Date) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	return d.Time.Before(other.Time)
}

// Between reports whether d falls within [from, to]. A zero bound is open.
func (d Date) Between(from, to Date) bool {
	if d.IsZero() {
		return false
	}
	if !from.IsZero() && d.Time.Before(from.Time) {
		return false
	}
	if !to.IsZero() && d.Time.After(to.Time) {
		return false
	}
	return true
}

// AddDays returns the date n calendar days later (earlier when n < 0).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// WeekOf returns the Monday and Sunday of the ISO week containing t.
func WeekOf(t time.Time) (Date, Date) {
	day := NewDate(t)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDays(-offset)
	return monday, monday.AddDays(6)
}

// upper decodes a JSON string and upper-cases it; null decodes as "".
func upper(b []byte) (string, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(s)), nil
}
