package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/validate"
)

// --- mocks ---

type mockNotificationAPI struct{ mock.Mock }

func (m *mockNotificationAPI) List(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Notification)
	return items, args.Error(1)
}
func (m *mockNotificationAPI) ListByLearner(ctx context.Context, learnerID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, learnerID)
	items, _ := args.Get(0).([]domain.Notification)
	return items, args.Error(1)
}
func (m *mockNotificationAPI) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationAPI) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	args := m.Called(ctx, n)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Notification) *domain.Notification); ok {
		return fn(ctx, n), args.Error(1)
	}
	if out, _ := args.Get(0).(*domain.Notification); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotificationAPI) UnreadCount(ctx context.Context, learnerID int64) (int, error) {
	args := m.Called(ctx, learnerID)
	return args.Int(0), args.Error(1)
}
func (m *mockNotificationAPI) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockNotificationAPI) MarkAllRead(ctx context.Context, learnerID int64, unreadIDs []int64) error {
	return m.Called(ctx, learnerID, unreadIDs).Error(0)
}

type mockLearnerAPI struct{ mock.Mock }

func (m *mockLearnerAPI) Get(ctx context.Context, id int64) (*domain.Learner, error) {
	args := m.Called(ctx, id)
	if l, _ := args.Get(0).(*domain.Learner); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLearnerAPI) ListByGroup(ctx context.Context, groupID int64) ([]domain.Learner, error) {
	args := m.Called(ctx, groupID)
	items, _ := args.Get(0).([]domain.Learner)
	return items, args.Error(1)
}

type mockPaymentAPI struct{ mock.Mock }

func (m *mockPaymentAPI) List(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Payment)
	return items, args.Error(1)
}

type mockAttendanceAPI struct{ mock.Mock }

func (m *mockAttendanceAPI) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.AttendanceRecord)
	return items, args.Error(1)
}

type mockDispatchStore struct{ mock.Mock }

func (m *mockDispatchStore) Put(ctx context.Context, d *domain.Dispatch) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDispatchStore) ListByNotification(ctx context.Context, notificationID int64) ([]domain.Dispatch, error) {
	args := m.Called(ctx, notificationID)
	items, _ := args.Get(0).([]domain.Dispatch)
	return items, args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

type fixture struct {
	api        *mockNotificationAPI
	learners   *mockLearnerAPI
	payments   *mockPaymentAPI
	attendance *mockAttendanceAPI
	dispatches *mockDispatchStore
	sms        *mockSMS
	mail       *mockMailer
	svc        Service
}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		api:        &mockNotificationAPI{},
		learners:   &mockLearnerAPI{},
		payments:   &mockPaymentAPI{},
		attendance: &mockAttendanceAPI{},
		dispatches: &mockDispatchStore{},
		sms:        &mockSMS{},
		mail:       &mockMailer{},
	}
	f.svc = NewService(ServiceDeps{
		Notifications:    f.api,
		Learners:         f.learners,
		Payments:         f.payments,
		Attendance:       f.attendance,
		Dispatches:       f.dispatches,
		SMS:              f.sms,
		Mailer:           f.mail,
		PageSize:         2,
		AbsenceThreshold: 2,
		Now:              func() time.Time { return fixedNow },
	})
	return f
}

func at(day int) domain.Timestamp {
	return domain.NewTimestamp(time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC))
}

func sample() []domain.Notification {
	return []domain.Notification{
		{ID: 1, LearnerID: 7, Title: "Facture", Message: "Paiement reçu", Type: domain.NotificationPayment, Read: true, CreatedAt: at(1)},
		{ID: 2, LearnerID: 7, Title: "Cours annulé", Message: "Salle B", Type: domain.NotificationUrgent, CreatedAt: at(3)},
		{ID: 3, LearnerID: 8, Title: "Rappel", Message: "paiement dû", Type: domain.NotificationReminder, CreatedAt: at(2)},
		{ID: 4, LearnerID: 8, Title: "Info", Message: "Bienvenue", Type: domain.NotificationGeneral, Read: true, CreatedAt: at(3)},
	}
}

// --- tests ---

func TestList_SortsFiltersPaginatesAndCountsBeforeFiltering(t *testing.T) {
	f := newFixture()
	f.api.On("List", mock.Anything).Return(sample(), nil)

	res, err := f.svc.List(context.Background(), Query{State: StateUnread})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Stats.Total)
	assert.Equal(t, 2, res.Stats.Unread)
	assert.Equal(t, 2, res.Stats.Read)
	assert.Equal(t, 1, res.Stats.UrgentUnread)
	assert.Equal(t, 2, res.Page.Total)
	assert.Equal(t, 2, res.Page.PerPage)
	require.Len(t, res.Page.Data, 2)
	assert.Equal(t, int64(2), res.Page.Data[0].ID)
	assert.Equal(t, int64(3), res.Page.Data[1].ID)
}

func TestList_ByLearnerUsesLearnerRoute(t *testing.T) {
	f := newFixture()
	f.api.On("ListByLearner", mock.Anything, int64(7)).Return(sample()[:2], nil)

	res, err := f.svc.List(context.Background(), Query{LearnerID: 7, Search: "SALLE"})

	require.NoError(t, err)
	require.Len(t, res.Page.Data, 1)
	assert.Equal(t, int64(2), res.Page.Data[0].ID)
	f.api.AssertNotCalled(t, "List", mock.Anything)
}

func TestList_PageClampedToLast(t *testing.T) {
	f := newFixture()
	f.api.On("List", mock.Anything).Return(sample(), nil)

	res, err := f.svc.List(context.Background(), Query{Page: 9})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.MaxPage)
	assert.Equal(t, 2, res.Page.ActualPage)
	require.Len(t, res.Page.Data, 2)
	assert.Equal(t, int64(3), res.Page.Data[0].ID)
	assert.Equal(t, int64(1), res.Page.Data[1].ID)
}

func TestMarkRead_AlreadyReadSkipsUpstream(t *testing.T) {
	f := newFixture()
	f.api.On("Get", mock.Anything, int64(1)).Return(&domain.Notification{ID: 1, Read: true}, nil)

	n, err := f.svc.MarkRead(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, bool(n.Read))
	f.api.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestMarkRead_Unread(t *testing.T) {
	f := newFixture()
	f.api.On("Get", mock.Anything, int64(2)).Return(&domain.Notification{ID: 2}, nil)
	f.api.On("MarkRead", mock.Anything, int64(2)).Return(nil)

	n, err := f.svc.MarkRead(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, bool(n.Read))
	f.api.AssertExpectations(t)
}

func TestMarkRead_NotFound(t *testing.T) {
	f := newFixture()
	f.api.On("Get", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)

	_, err := f.svc.MarkRead(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkAllRead_PassesUnreadIDs(t *testing.T) {
	f := newFixture()
	items := append(sample()[:2], domain.Notification{ID: 5, LearnerID: 7})
	f.api.On("ListByLearner", mock.Anything, int64(7)).Return(items, nil)
	f.api.On("MarkAllRead", mock.Anything, int64(7), []int64{2, 5}).Return(nil)

	n, err := f.svc.MarkAllRead(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	f.api.AssertExpectations(t)
}

func TestMarkAllRead_NothingUnread(t *testing.T) {
	f := newFixture()
	f.api.On("ListByLearner", mock.Anything, int64(7)).Return(sample()[:1], nil)

	n, err := f.svc.MarkAllRead(context.Background(), 7)

	require.NoError(t, err)
	assert.Zero(t, n)
	f.api.AssertNotCalled(t, "MarkAllRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAllRead_RequiresLearner(t *testing.T) {
	f := newFixture()
	_, err := f.svc.MarkAllRead(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUnreadCount(t *testing.T) {
	f := newFixture()
	f.api.On("UnreadCount", mock.Anything, int64(7)).Return(3, nil)
	f.api.On("List", mock.Anything).Return(sample(), nil)

	n, err := f.svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.svc.UnreadCount(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSend_DeliversAndRecordsDispatches(t *testing.T) {
	f := newFixture()
	learner := &domain.Learner{ID: 7, Email: "ana@example.com", Phone: "+33612345678"}
	f.learners.On("Get", mock.Anything, int64(7)).Return(learner, nil)
	f.api.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.LearnerID == 7 && n.Type == domain.NotificationUrgent && n.CreatedAt.Equal(fixedNow)
	})).Return(&domain.Notification{ID: 40, LearnerID: 7, Title: "Cours", Message: "Annulé"}, nil)
	f.sms.On("SendSMS", mock.Anything, "+33612345678", "Cours: Annulé").Return(errors.New("throttled"))
	f.mail.On("SendEmail", "ana@example.com", "Cours", "Annulé").Return(nil)
	f.dispatches.On("Put", mock.Anything, mock.AnythingOfType("*domain.Dispatch")).Return(nil)

	res, err := f.svc.Send(context.Background(), SendRequest{
		LearnerID: 7,
		Content: Content{
			Title: "Cours", Message: "Annulé", Type: "urgent",
			Channels: []domain.Channel{domain.ChannelSMS, domain.ChannelEmail, domain.ChannelSMS},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(40), res.Notification.ID)
	require.Len(t, res.Dispatches, 2)
	assert.Equal(t, domain.DispatchFailed, res.Dispatches[0].Status)
	assert.Equal(t, "throttled", res.Dispatches[0].Error)
	assert.Equal(t, domain.DispatchSent, res.Dispatches[1].Status)
	f.dispatches.AssertNumberOfCalls(t, "Put", 2)
}

func TestSend_SkipsChannelWithoutDestination(t *testing.T) {
	f := newFixture()
	f.learners.On("Get", mock.Anything, int64(7)).Return(&domain.Learner{ID: 7}, nil)
	f.api.On("Create", mock.Anything, mock.Anything).Return(&domain.Notification{ID: 41}, nil)
	f.dispatches.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	res, err := f.svc.Send(context.Background(), SendRequest{
		LearnerID: 7,
		Content:   Content{Title: "t", Message: "m", Channels: []domain.Channel{domain.ChannelEmail}},
	})

	require.NoError(t, err)
	require.Len(t, res.Dispatches, 1)
	assert.Equal(t, domain.DispatchSkipped, res.Dispatches[0].Status)
	f.mail.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_SkipsSMSWhenSenderNotConfigured(t *testing.T) {
	f := newFixture()
	f.svc = NewService(ServiceDeps{
		Notifications: f.api,
		Learners:      f.learners,
		Dispatches:    f.dispatches,
		Mailer:        f.mail,
		Now:           func() time.Time { return fixedNow },
	})
	f.learners.On("Get", mock.Anything, int64(7)).Return(&domain.Learner{ID: 7, Phone: "+33612345678"}, nil)
	f.api.On("Create", mock.Anything, mock.Anything).Return(&domain.Notification{ID: 42}, nil)
	f.dispatches.On("Put", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Send(context.Background(), SendRequest{
		LearnerID: 7,
		Content:   Content{Title: "t", Message: "m", Channels: []domain.Channel{domain.ChannelSMS}},
	})

	require.NoError(t, err)
	require.Len(t, res.Dispatches, 1)
	assert.Equal(t, domain.DispatchSkipped, res.Dispatches[0].Status)
	assert.Equal(t, "sms channel not configured", res.Dispatches[0].Error)
}

func TestSend_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Send(context.Background(), SendRequest{Content: Content{Channels: []domain.Channel{"fax"}}})

	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	f.learners.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestBroadcast_ReportsPerLearner(t *testing.T) {
	f := newFixture()
	f.learners.On("ListByGroup", mock.Anything, int64(3)).Return([]domain.Learner{{ID: 7}, {ID: 8}}, nil)
	f.api.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool { return n.LearnerID == 7 })).
		Return(&domain.Notification{ID: 50, LearnerID: 7}, nil)
	f.api.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool { return n.LearnerID == 8 })).
		Return(nil, domain.ErrUpstream)

	res, err := f.svc.Broadcast(context.Background(), 3, Content{Title: "t", Message: "m"})

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, int64(50), res[0].NotificationID)
	assert.Empty(t, res[0].Error)
	assert.Equal(t, int64(8), res[1].LearnerID)
	assert.NotEmpty(t, res[1].Error)
}

func TestRemindOverduePayments(t *testing.T) {
	f := newFixture()
	due := func(s string) domain.Date { d, _ := domain.ParseDate(s); return d }
	f.payments.On("List", mock.Anything).Return([]domain.Payment{
		{ID: 1, LearnerID: 7, Amount: 100, DueDate: due("2026-03-01"), Status: domain.PaymentPending},
		{ID: 2, LearnerID: 7, Amount: 50, DueDate: due("2026-03-01"), Status: domain.PaymentPaid},
		{ID: 3, LearnerID: 8, Amount: 80, DueDate: due("2026-04-01"), Status: domain.PaymentPending},
		{ID: 12, LearnerID: 8, Amount: 30, DueDate: due("2026-02-01"), Status: domain.PaymentPartial},
		{ID: 13, LearnerID: 9, Amount: 30, DueDate: due("2026-02-01"), Status: domain.PaymentPending, Reference: "F-13"},
		{ID: 14, LearnerID: 10, Amount: 5, DueDate: due("2026-05-01"), Status: domain.PaymentOverdue},
	}, nil)
	f.api.On("List", mock.Anything).Return([]domain.Notification{
		{ID: 90, LearnerID: 9, Type: domain.NotificationPayment, Message: "rappel [réf. F-13]"},
		{ID: 91, LearnerID: 8, Type: domain.NotificationPayment, Message: "rappel [réf. #1]"},
	}, nil)
	f.api.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, n *domain.Notification) *domain.Notification {
		out := *n
		out.ID = 100 + n.LearnerID
		return &out
	}, nil)

	res, err := f.svc.RemindOverduePayments(context.Background(), fixedNow)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, int64(7), res.Notifications[0].LearnerID)
	assert.Contains(t, res.Notifications[0].Message, "[réf. #1]")
	assert.Equal(t, int64(8), res.Notifications[1].LearnerID)
	assert.Contains(t, res.Notifications[1].Message, "[réf. #12]")
	assert.Equal(t, domain.NotificationPayment, res.Notifications[1].Type)
}

func TestFlagAbsences(t *testing.T) {
	f := newFixture()
	f.attendance.On("List", mock.Anything).Return([]domain.AttendanceRecord{
		{LearnerID: 7, Status: domain.AttendanceAbsent},
		{LearnerID: 7, Status: domain.AttendanceAbsent},
		{LearnerID: 7, Status: domain.AttendancePresent},
		{LearnerID: 8, Status: domain.AttendanceAbsent},
		{LearnerID: 9, Status: domain.AttendanceAbsent},
		{LearnerID: 9, Status: domain.AttendanceAbsent},
	}, nil)
	f.api.On("List", mock.Anything).Return([]domain.Notification{
		{ID: 1, LearnerID: 9, Type: domain.NotificationAttendance},
	}, nil)
	f.api.On("Create", mock.Anything, mock.Anything).Return(&domain.Notification{ID: 60, LearnerID: 7}, nil).Once()

	res, err := f.svc.FlagAbsences(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	f.api.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.LearnerID == 7 && n.Type == domain.NotificationAttendance
	}))
}
