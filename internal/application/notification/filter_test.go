package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-training-admin/internal/domain"
)

func TestFilter(t *testing.T) {
	items := sample()
	cases := []struct {
		name string
		q    Query
		want []int64
	}{
		{"no criteria", Query{}, []int64{1, 2, 3, 4}},
		{"learner", Query{LearnerID: 8}, []int64{3, 4}},
		{"type", Query{Type: domain.NotificationUrgent}, []int64{2}},
		{"read", Query{State: StateRead}, []int64{1, 4}},
		{"unread", Query{State: StateUnread}, []int64{2, 3}},
		{"search title or message", Query{Search: "  PAIEMENT "}, []int64{1, 3}},
		{"combined", Query{LearnerID: 7, State: StateUnread, Search: "annul"}, []int64{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(items, tc.q)
			ids := make([]int64, 0, len(got))
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestFilter_NeverNil(t *testing.T) {
	assert.NotNil(t, Filter(nil, Query{State: StateRead}))
}

func TestSortNewestFirst_TiesByID(t *testing.T) {
	items := sample()
	items = append(items, domain.Notification{ID: 9})
	SortNewestFirst(items)

	ids := make([]int64, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int64{4, 2, 3, 1, 9}, ids)
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sample())

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Unread)
	assert.Equal(t, 2, st.Read)
	assert.Equal(t, 1, st.UrgentUnread)
	assert.Equal(t, 1, st.ByType[domain.NotificationPayment])
	assert.Equal(t, 0, st.ByType[domain.NotificationAttendance])
	assert.Len(t, st.ByType, len(domain.NotificationTypes))
}

func TestIsUnread_FromWireFlags(t *testing.T) {
	var n domain.Notification
	for body, unread := range map[string]bool{
		`{"lu":0}`:        true,
		`{"lu":1}`:        false,
		`{"read":"true"}`: false,
		`{"isRead":null}`: true,
		`{}`:              true,
	} {
		n = domain.Notification{}
		assert.NoError(t, n.UnmarshalJSON([]byte(body)))
		assert.Equal(t, unread, IsUnread(n), body)
	}
}

func TestParseState(t *testing.T) {
	assert.Equal(t, StateUnread, ParseState("UNREAD"))
	assert.Equal(t, StateRead, ParseState("read"))
	assert.Equal(t, StateAll, ParseState("whatever"))
}
