// Package schedule manages training sessions: the calendar of every group.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

// Day is one calendar day of a week view.
type Day struct {
	Date     domain.Date              `json:"date"`
	Sessions []domain.TrainingSession `json:"sessions"`
}

type Service interface {
	List(ctx context.Context, q catalog.Query) (paging.Page[domain.TrainingSession], error)
	Get(ctx context.Context, id int64) (*domain.TrainingSession, error)
	Create(ctx context.Context, s *domain.TrainingSession) (*domain.TrainingSession, error)
	Update(ctx context.Context, id int64, s *domain.TrainingSession) (*domain.TrainingSession, error)
	Delete(ctx context.Context, id int64) error
	ByGroup(ctx context.Context, groupID int64) ([]domain.TrainingSession, error)
	ByTrainer(ctx context.Context, trainerID int64) ([]domain.TrainingSession, error)
	ByDateRange(ctx context.Context, from, to domain.Date) ([]domain.TrainingSession, error)
	Week(ctx context.Context, day time.Time) ([]Day, error)
	Cancel(ctx context.Context, id int64) (*domain.TrainingSession, error)
}

type sessionAPI interface {
	List(ctx context.Context) ([]domain.TrainingSession, error)
	Get(ctx context.Context, id int64) (*domain.TrainingSession, error)
	Create(ctx context.Context, v *domain.TrainingSession) (*domain.TrainingSession, error)
	Update(ctx context.Context, id int64, v *domain.TrainingSession) (*domain.TrainingSession, error)
	Delete(ctx context.Context, id int64) error
	ListByGroup(ctx context.Context, groupID int64) ([]domain.TrainingSession, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]domain.TrainingSession, error)
	ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.TrainingSession, error)
}

type service struct {
	*catalog.Service[domain.TrainingSession]
	sessions sessionAPI
}

type ServiceDeps struct {
	Sessions sessionAPI
}

func NewService(deps ServiceDeps) Service {
	return &service{
		Service: catalog.New[domain.TrainingSession](deps.Sessions, func(s domain.TrainingSession, needle string) bool {
			return catalog.Contains(needle, s.Room, string(s.Status), s.Date.String())
		}),
		sessions: deps.Sessions,
	}
}

func (s *service) List(ctx context.Context, q catalog.Query) (paging.Page[domain.TrainingSession], error) {
	items, err := s.sessions.List(ctx)
	if err != nil {
		return paging.Page[domain.TrainingSession]{}, err
	}
	items = s.Filter(items, q.Search, nil)
	SortChronologically(items)
	return paging.Paginate(items, q.Page, q.PerPage), nil
}

func (s *service) Create(ctx context.Context, in *domain.TrainingSession) (*domain.TrainingSession, error) {
	if err := checkTimes(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.SessionPlanned
	}
	return s.Service.Create(ctx, in)
}

func (s *service) Update(ctx context.Context, id int64, in *domain.TrainingSession) (*domain.TrainingSession, error) {
	if err := checkTimes(in); err != nil {
		return nil, err
	}
	in.ID = id
	return s.Service.Update(ctx, id, in)
}

func checkTimes(in *domain.TrainingSession) error {
	if in.Date.IsZero() {
		return fmt.Errorf("date is required: %w", domain.ErrBadRequest)
	}
	start, err := domain.ClockMinutes(in.StartTime)
	if err != nil {
		return err
	}
	end, err := domain.ClockMinutes(in.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("heureDebut %s must precede heureFin %s: %w", in.StartTime, in.EndTime, domain.ErrBadRequest)
	}
	return nil
}

func (s *service) ByGroup(ctx context.Context, groupID int64) ([]domain.TrainingSession, error) {
	return s.sorted(s.sessions.ListByGroup(ctx, groupID))
}

func (s *service) ByTrainer(ctx context.Context, trainerID int64) ([]domain.TrainingSession, error) {
	return s.sorted(s.sessions.ListByTrainer(ctx, trainerID))
}

func (s *service) ByDateRange(ctx context.Context, from, to domain.Date) ([]domain.TrainingSession, error) {
	if !from.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("fin %s is before debut %s: %w", to, from, domain.ErrBadRequest)
	}
	return s.sorted(s.sessions.ListByDateRange(ctx, from, to))
}

func (s *service) sorted(items []domain.TrainingSession, err error) ([]domain.TrainingSession, error) {
	if err != nil {
		return nil, err
	}
	SortChronologically(items)
	return items, nil
}

// Week returns Monday to Sunday of the week containing day. Days without sessions are
// present with an empty list.
func (s *service) Week(ctx context.Context, day time.Time) ([]Day, error) {
	monday, sunday := domain.WeekOf(day)
	items, err := s.sessions.ListByDateRange(ctx, monday, sunday)
	if err != nil {
		return nil, err
	}
	SortChronologically(items)

	week := make([]Day, 7)
	for i := range week {
		week[i] = Day{Date: monday.AddDays(i), Sessions: []domain.TrainingSession{}}
	}
	for _, it := range items {
		if !it.Date.Between(monday, sunday) {
			continue
		}
		i := int(it.Date.Sub(monday.Time).Hours() / 24)
		week[i].Sessions = append(week[i].Sessions, it)
	}
	return week, nil
}

func (s *service) Cancel(ctx context.Context, id int64) (*domain.TrainingSession, error) {
	current, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.SessionCancelled {
		return current, nil
	}
	current.Status = domain.SessionCancelled
	return s.sessions.Update(ctx, id, current)
}

// SortChronologically orders sessions by date, then start time, then id.
// Unparseable start times sort last within their day.
func SortChronologically(items []domain.TrainingSession) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Time.Before(b.Date.Time)
		}
		am, bm := startMinutes(a), startMinutes(b)
		if am != bm {
			return am < bm
		}
		return a.ID < b.ID
	})
}

func startMinutes(s domain.TrainingSession) int {
	m, err := domain.ClockMinutes(s.StartTime)
	if err != nil {
		return 24 * 60
	}
	return m
}
