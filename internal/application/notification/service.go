// Package notification is the notification center: listing with filters and stats,
// read bookkeeping, outbound delivery, and the overdue/absence generators.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

// ListResult is one page of the notification center plus stats over the unfiltered set.
type ListResult struct {
	Page  paging.Page[domain.Notification]
	Stats Stats
}

type Service interface {
	List(ctx context.Context, q Query) (*ListResult, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, learnerID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context, learnerID int64) (int, error)
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
	Broadcast(ctx context.Context, groupID int64, req Content) ([]BroadcastResult, error)
	Dispatches(ctx context.Context, notificationID int64) ([]domain.Dispatch, error)
	RemindOverduePayments(ctx context.Context, now time.Time) (*GenerateResult, error)
	FlagAbsences(ctx context.Context, threshold int) (*GenerateResult, error)
}

type notificationAPI interface {
	List(ctx context.Context) ([]domain.Notification, error)
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.Notification, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context, learnerID int64) (int, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, learnerID int64, unreadIDs []int64) error
}

type learnerAPI interface {
	Get(ctx context.Context, id int64) (*domain.Learner, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Learner, error)
}

type paymentAPI interface {
	List(ctx context.Context) ([]domain.Payment, error)
}

type attendanceAPI interface {
	List(ctx context.Context) ([]domain.AttendanceRecord, error)
}

type dispatchStore interface {
	Put(ctx context.Context, d *domain.Dispatch) error
	ListByNotification(ctx context.Context, notificationID int64) ([]domain.Dispatch, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	notifications    notificationAPI
	learners         learnerAPI
	payments         paymentAPI
	attendance       attendanceAPI
	dispatches       dispatchStore
	sms              smsSender
	mail             mailer
	pageSize         int
	absenceThreshold int
	now              func() time.Time
}

type ServiceDeps struct {
	Notifications    notificationAPI
	Learners         learnerAPI
	Payments         paymentAPI
	Attendance       attendanceAPI
	Dispatches       dispatchStore
	SMS              smsSender
	Mailer           mailer
	PageSize         int
	AbsenceThreshold int
	Now              func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		notifications:    deps.Notifications,
		learners:         deps.Learners,
		payments:         deps.Payments,
		attendance:       deps.Attendance,
		dispatches:       deps.Dispatches,
		sms:              deps.SMS,
		mail:             deps.Mailer,
		pageSize:         deps.PageSize,
		absenceThreshold: deps.AbsenceThreshold,
		now:              deps.Now,
	}
	if s.pageSize < 1 {
		s.pageSize = paging.DefaultPerPage
	}
	if s.absenceThreshold < 1 {
		s.absenceThreshold = 3
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) fetch(ctx context.Context, learnerID int64) ([]domain.Notification, error) {
	if learnerID != 0 {
		return s.notifications.ListByLearner(ctx, learnerID)
	}
	return s.notifications.List(ctx)
}

func (s *service) List(ctx context.Context, q Query) (*ListResult, error) {
	items, err := s.fetch(ctx, q.LearnerID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	stats := ComputeStats(items)

	perPage := q.PerPage
	if perPage < 1 {
		perPage = s.pageSize
	}
	return &ListResult{
		Page:  paging.Paginate(Filter(items, q), q.Page, perPage),
		Stats: stats,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.notifications.Get(ctx, id)
}

// MarkRead is idempotent: a notification already read is returned without another upstream write.
func (s *service) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := s.notifications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsUnread(*n) {
		return n, nil
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllRead marks the learner's unread notifications and returns how many there were.
func (s *service) MarkAllRead(ctx context.Context, learnerID int64) (int, error) {
	if learnerID == 0 {
		return 0, fmt.Errorf("learner id required: %w", domain.ErrBadRequest)
	}
	items, err := s.notifications.ListByLearner(ctx, learnerID)
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(items))
	for _, n := range items {
		if IsUnread(n) {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.notifications.MarkAllRead(ctx, learnerID, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.notifications.Delete(ctx, id)
}

// UnreadCount uses the upstream counter for one learner and counts locally across all learners.
func (s *service) UnreadCount(ctx context.Context, learnerID int64) (int, error) {
	if learnerID != 0 {
		return s.notifications.UnreadCount(ctx, learnerID)
	}
	items, err := s.notifications.List(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeStats(items).Unread, nil
}

func (s *service) Dispatches(ctx context.Context, notificationID int64) ([]domain.Dispatch, error) {
	return s.dispatches.ListByNotification(ctx, notificationID)
}
