// Package dashboard aggregates the home-screen statistics.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-training-admin/internal/domain"
)

const cacheKey = "dashboard:stats"

type Stats struct {
	Learners            int       `json:"learners"`
	ActiveLearners      int       `json:"active_learners"`
	Trainers            int       `json:"trainers"`
	Programs            int       `json:"programs"`
	Groups              int       `json:"groups"`
	SessionsToday       int       `json:"sessions_today"`
	SessionsThisWeek    int       `json:"sessions_this_week"`
	AttendanceRate      float64   `json:"attendance_rate"`
	PaymentsCollected   float64   `json:"payments_collected"`
	PaymentsPending     float64   `json:"payments_pending"`
	OverduePayments     int       `json:"overdue_payments"`
	UnreadNotifications int       `json:"unread_notifications"`
	GeneratedAt         time.Time `json:"generated_at"`
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Refresh(ctx context.Context) (*Stats, error)
}

type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type cache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type service struct {
	learners      lister[domain.Learner]
	trainers      lister[domain.Trainer]
	programs      lister[domain.Program]
	groups        lister[domain.Group]
	sessions      lister[domain.TrainingSession]
	attendance    lister[domain.AttendanceRecord]
	payments      lister[domain.Payment]
	notifications lister[domain.Notification]
	cache         cache
	cacheTTL      time.Duration
	now           func() time.Time
}

// ServiceDeps wires the upstream collections. Cache may be nil to disable caching.
type ServiceDeps struct {
	Learners      lister[domain.Learner]
	Trainers      lister[domain.Trainer]
	Programs      lister[domain.Program]
	Groups        lister[domain.Group]
	Sessions      lister[domain.TrainingSession]
	Attendance    lister[domain.AttendanceRecord]
	Payments      lister[domain.Payment]
	Notifications lister[domain.Notification]
	Cache         cache
	CacheTTL      time.Duration
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		learners:      deps.Learners,
		trainers:      deps.Trainers,
		programs:      deps.Programs,
		groups:        deps.Groups,
		sessions:      deps.Sessions,
		attendance:    deps.Attendance,
		payments:      deps.Payments,
		notifications: deps.Notifications,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		now:           deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = time.Minute
	}
	return s
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			slog.Warn("dashboard cache read failed", "err", err)
		} else if hit {
			return &cached, nil
		}
	}
	st, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, st, s.cacheTTL); err != nil {
			slog.Warn("dashboard cache write failed", "err", err)
		}
	}
	return st, nil
}

// Refresh drops the cached figures and recomputes them.
func (s *service) Refresh(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			slog.Warn("dashboard cache invalidation failed", "err", err)
		}
	}
	return s.Stats(ctx)
}

func (s *service) compute(ctx context.Context) (*Stats, error) {
	var (
		learners      []domain.Learner
		trainers      []domain.Trainer
		programs      []domain.Program
		groups        []domain.Group
		sessions      []domain.TrainingSession
		attendance    []domain.AttendanceRecord
		payments      []domain.Payment
		notifications []domain.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	fetch(gctx, g, s.learners, &learners)
	fetch(gctx, g, s.trainers, &trainers)
	fetch(gctx, g, s.programs, &programs)
	fetch(gctx, g, s.groups, &groups)
	fetch(gctx, g, s.sessions, &sessions)
	fetch(gctx, g, s.attendance, &attendance)
	fetch(gctx, g, s.payments, &payments)
	fetch(gctx, g, s.notifications, &notifications)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	st := &Stats{
		Learners:       len(learners),
		Trainers:       len(trainers),
		Programs:       len(programs),
		Groups:         len(groups),
		AttendanceRate: domain.AttendanceRate(attendance),
		GeneratedAt:    now.UTC(),
	}
	for _, l := range learners {
		if l.IsActive() {
			st.ActiveLearners++
		}
	}

	today := domain.NewDate(now)
	monday, sunday := domain.WeekOf(now)
	for _, ses := range sessions {
		if ses.Date.Equal(today.Time) {
			st.SessionsToday++
		}
		if ses.Date.Between(monday, sunday) {
			st.SessionsThisWeek++
		}
	}

	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPaid:
			st.PaymentsCollected += p.Amount
		case domain.PaymentPending, domain.PaymentPartial:
			st.PaymentsPending += p.Amount
		}
		if p.IsOverdue(now) {
			st.OverduePayments++
		}
	}
	st.PaymentsCollected = round2(st.PaymentsCollected)
	st.PaymentsPending = round2(st.PaymentsPending)

	for _, n := range notifications {
		if !bool(n.Read) {
			st.UnreadNotifications++
		}
	}
	return st, nil
}

func fetch[T any](ctx context.Context, g *errgroup.Group, src lister[T], dst *[]T) {
	g.Go(func() error {
		items, err := src.List(ctx)
		if err != nil {
			return err
		}
		*dst = items
		return nil
	})
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
