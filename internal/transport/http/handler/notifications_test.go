package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-training-admin/internal/application/notification"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) List(ctx context.Context, q notification.Query) (*notification.ListResult, error) {
	args := m.Called(ctx, q)
	if r, _ := args.Get(0).(*notification.ListResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) MarkAllRead(ctx context.Context, learnerID int64) (int, error) {
	args := m.Called(ctx, learnerID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationSvc) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNotificationSvc) UnreadCount(ctx context.Context, learnerID int64) (int, error) {
	args := m.Called(ctx, learnerID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationSvc) Send(ctx context.Context, req notification.SendRequest) (*notification.SendResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*notification.SendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Broadcast(ctx context.Context, groupID int64, c notification.Content) ([]notification.BroadcastResult, error) {
	args := m.Called(ctx, groupID, c)
	r, _ := args.Get(0).([]notification.BroadcastResult)
	return r, args.Error(1)
}

func (m *mockNotificationSvc) Dispatches(ctx context.Context, notificationID int64) ([]domain.Dispatch, error) {
	args := m.Called(ctx, notificationID)
	r, _ := args.Get(0).([]domain.Dispatch)
	return r, args.Error(1)
}

func (m *mockNotificationSvc) RemindOverduePayments(ctx context.Context, now time.Time) (*notification.GenerateResult, error) {
	args := m.Called(ctx, now)
	if r, _ := args.Get(0).(*notification.GenerateResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) FlagAbsences(ctx context.Context, threshold int) (*notification.GenerateResult, error) {
	args := m.Called(ctx, threshold)
	if r, _ := args.Get(0).(*notification.GenerateResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNotificationList_ParsesQueryAndFlattensPage(t *testing.T) {
	svc := &mockNotificationSvc{}
	want := notification.Query{
		LearnerID: 7, Type: domain.NotificationPayment, State: notification.StateUnread,
		Search: "retard", Page: 2, PerPage: 5,
	}
	result := &notification.ListResult{
		Page:  paging.Paginate([]domain.Notification{{ID: 1, Title: "Paiement"}}, 1, 5),
		Stats: notification.Stats{Total: 3, Unread: 2, Read: 1},
	}
	svc.On("List", mock.Anything, want).Return(result, nil)
	h := NewNotificationHandler(svc, 3)

	r := httptest.NewRequest(http.MethodGet, "/v1/notifications?apprenantId=7&type=payment&etat=unread&search=retard&page=2&per_page=5", nil)
	rr := httptest.NewRecorder()
	h.List(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.EqualValues(t, 1, resp["total"])
	assert.EqualValues(t, 1, resp["max_page"])
	assert.Len(t, resp["data"], 1)
	stats := resp["stats"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["unread"])
	svc.AssertExpectations(t)
}

func TestNotificationUnreadCount_AllLearners(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("UnreadCount", mock.Anything, int64(0)).Return(11, nil)
	h := NewNotificationHandler(svc, 3)
	rr := httptest.NewRecorder()
	h.UnreadCount(rr, httptest.NewRequest(http.MethodGet, "/v1/notifications/unread-count", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":11}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestNotificationUnreadCount_InvalidLearner(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationSvc{}, 3)
	rr := httptest.NewRecorder()
	h.UnreadCount(rr, httptest.NewRequest(http.MethodGet, "/v1/notifications/unread-count?apprenantId=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationUnreadCount(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("UnreadCount", mock.Anything, int64(7)).Return(4, nil)
	h := NewNotificationHandler(svc, 3)
	rr := httptest.NewRecorder()
	h.UnreadCount(rr, httptest.NewRequest(http.MethodGet, "/v1/notifications/unread-count?apprenantId=7", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":4}`, rr.Body.String())
}

func TestNotificationMarkRead_UpstreamDown(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("MarkRead", mock.Anything, int64(3)).Return(nil, domain.ErrUpstream)
	h := NewNotificationHandler(svc, 3)
	rr := httptest.NewRecorder()
	h.MarkRead(rr, withChiID(httptest.NewRequest(http.MethodPut, "/v1/notifications/3/read", nil), "3"))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("MarkAllRead", mock.Anything, int64(7)).Return(2, nil)
	h := NewNotificationHandler(svc, 3)
	rr := httptest.NewRecorder()
	h.MarkAllRead(rr, httptest.NewRequest(http.MethodPut, "/v1/notifications/read-all?apprenantId=7", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"marked":2}`, rr.Body.String())
}

func TestNotificationBroadcast_RequiresGroup(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationSvc{}, 3)
	rr := httptest.NewRecorder()
	h.Broadcast(rr, httptest.NewRequest(http.MethodPost, "/v1/notifications/broadcast",
		bytes.NewBufferString(`{"titre":"Salle","message":"Changement de salle"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationBroadcast(t *testing.T) {
	svc := &mockNotificationSvc{}
	content := notification.Content{Title: "Salle", Message: "Changement de salle"}
	svc.On("Broadcast", mock.Anything, int64(2), content).
		Return([]notification.BroadcastResult{{LearnerID: 1, NotificationID: 10}}, nil)
	h := NewNotificationHandler(svc, 3)
	rr := httptest.NewRecorder()
	h.Broadcast(rr, httptest.NewRequest(http.MethodPost, "/v1/notifications/broadcast",
		bytes.NewBufferString(`{"groupeId":2,"titre":"Salle","message":"Changement de salle"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestNotificationGenerate(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("FlagAbsences", mock.Anything, 3).Return(&notification.GenerateResult{Created: 1}, nil).Once()
	svc.On("FlagAbsences", mock.Anything, 5).Return(&notification.GenerateResult{Created: 0}, nil).Once()
	fixed := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc.On("RemindOverduePayments", mock.Anything, fixed).Return(&notification.GenerateResult{Created: 2}, nil)
	h := NewNotificationHandler(svc, 3)
	h.now = func() time.Time { return fixed }

	serve := func(kind, query string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/notifications/generate/"+kind+query, nil)
		h.Generate(rr, withChiParam(r, "kind", kind))
		return rr
	}

	assert.Equal(t, http.StatusOK, serve("absences", "").Code)
	assert.Equal(t, http.StatusOK, serve("absences", "?threshold=5").Code)
	assert.Equal(t, http.StatusBadRequest, serve("absences", "?threshold=0").Code)
	rr := serve("overdue-payments", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"created":2`)
	assert.Equal(t, http.StatusBadRequest, serve("birthdays", "").Code)
	svc.AssertExpectations(t)
}
