package notification

import (
	"sort"
	"strings"

	"github.com/go-training-admin/internal/domain"
)

// State selects notifications by read flag.
type State string

const (
	StateAll    State = "all"
	StateRead   State = "read"
	StateUnread State = "unread"
)

// Query filters and pages the notification center list.
type Query struct {
	LearnerID int64
	Type      domain.NotificationType
	State     State
	Search    string
	Page      int
	PerPage   int
}

// Stats summarises a set of notifications before filtering.
type Stats struct {
	Total        int                             `json:"total"`
	Unread       int                             `json:"unread"`
	Read         int                             `json:"read"`
	ByType       map[domain.NotificationType]int `json:"by_type"`
	UrgentUnread int                             `json:"urgent_unread"`
}

func IsUnread(n domain.Notification) bool {
	return !bool(n.Read)
}

// Filter returns the notifications matching every non-empty criterion of q.
// Search is a case-insensitive substring match over title and message.
func Filter(items []domain.Notification, q Query) []domain.Notification {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Notification, 0, len(items))
	for _, n := range items {
		if q.LearnerID != 0 && n.LearnerID != q.LearnerID {
			continue
		}
		if q.Type != "" && n.Type != q.Type {
			continue
		}
		switch q.State {
		case StateRead:
			if IsUnread(n) {
				continue
			}
		case StateUnread:
			if !IsUnread(n) {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(n.Title), needle) &&
			!strings.Contains(strings.ToLower(n.Message), needle) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SortNewestFirst orders by creation time descending, then id descending.
// Notifications without a timestamp sort last.
func SortNewestFirst(items []domain.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return a.ID > b.ID
	})
}

func ComputeStats(items []domain.Notification) Stats {
	st := Stats{Total: len(items), ByType: make(map[domain.NotificationType]int, len(domain.NotificationTypes))}
	for _, t := range domain.NotificationTypes {
		st.ByType[t] = 0
	}
	for _, n := range items {
		st.ByType[n.Type]++
		if IsUnread(n) {
			st.Unread++
			if n.Type == domain.NotificationUrgent {
				st.UrgentUnread++
			}
		}
	}
	st.Read = st.Total - st.Unread
	return st
}

// ParseState maps query-string values onto a State; anything unknown means all.
func ParseState(s string) State {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case StateRead:
		return StateRead
	case StateUnread:
		return StateUnread
	}
	return StateAll
}
