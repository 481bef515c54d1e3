package learner

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

type Filter struct {
	Status  domain.LearnerStatus
	GroupID int64
	Search  string
	Page    int
	PerPage int
}

// Profile is the learner detail screen: the record plus everything hanging off it.
type Profile struct {
	Learner             *domain.Learner           `json:"apprenant"`
	Group               *domain.Group             `json:"groupe,omitempty"`
	Payments            []domain.Payment          `json:"paiements"`
	Attendance          []domain.AttendanceRecord `json:"presences"`
	Notifications       []domain.Notification     `json:"notifications"`
	AttendanceRate      float64                   `json:"attendance_rate"`
	TotalPaid           float64                   `json:"total_paid"`
	TotalOutstanding    float64                   `json:"total_outstanding"`
	UnreadNotifications int                       `json:"unread_notifications"`
}

type Service interface {
	List(ctx context.Context, f Filter) (paging.Page[domain.Learner], error)
	Get(ctx context.Context, id int64) (*domain.Learner, error)
	Create(ctx context.Context, l *domain.Learner) (*domain.Learner, error)
	Update(ctx context.Context, id int64, l *domain.Learner) (*domain.Learner, error)
	Delete(ctx context.Context, id int64) error
	Profile(ctx context.Context, id int64) (*Profile, error)
}

type learnerAPI interface {
	List(ctx context.Context) ([]domain.Learner, error)
	Get(ctx context.Context, id int64) (*domain.Learner, error)
	Create(ctx context.Context, v *domain.Learner) (*domain.Learner, error)
	Update(ctx context.Context, id int64, v *domain.Learner) (*domain.Learner, error)
	Delete(ctx context.Context, id int64) error
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Learner, error)
}

type groupAPI interface {
	Get(ctx context.Context, id int64) (*domain.Group, error)
}

type paymentAPI interface {
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.Payment, error)
}

type attendanceAPI interface {
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.AttendanceRecord, error)
}

type notificationAPI interface {
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.Notification, error)
}

type service struct {
	*catalog.Service[domain.Learner]
	learners      learnerAPI
	groups        groupAPI
	payments      paymentAPI
	attendance    attendanceAPI
	notifications notificationAPI
	now           func() time.Time
}

type ServiceDeps struct {
	Learners      learnerAPI
	Groups        groupAPI
	Payments      paymentAPI
	Attendance    attendanceAPI
	Notifications notificationAPI
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		Service:       catalog.New[domain.Learner](deps.Learners, Match),
		learners:      deps.Learners,
		groups:        deps.Groups,
		payments:      deps.Payments,
		attendance:    deps.Attendance,
		notifications: deps.Notifications,
		now:           deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Match searches names, email and phone.
func Match(l domain.Learner, needle string) bool {
	return catalog.Contains(needle, l.FirstName, l.LastName, l.FullName(), l.Email, l.Phone)
}

func (s *service) List(ctx context.Context, f Filter) (paging.Page[domain.Learner], error) {
	var (
		items []domain.Learner
		err   error
	)
	if f.GroupID != 0 {
		items, err = s.learners.ListByGroup(ctx, f.GroupID)
	} else {
		items, err = s.learners.List(ctx)
	}
	if err != nil {
		return paging.Page[domain.Learner]{}, err
	}
	var keep func(domain.Learner) bool
	if f.Status != "" {
		keep = func(l domain.Learner) bool {
			if f.Status == domain.LearnerActive {
				return l.IsActive()
			}
			return l.Status == f.Status
		}
	}
	return paging.Paginate(s.Filter(items, f.Search, keep), f.Page, f.PerPage), nil
}

// Create defaults the status to ACTIVE and the enrolment date to today.
func (s *service) Create(ctx context.Context, l *domain.Learner) (*domain.Learner, error) {
	normalize(l)
	if l.Status == "" {
		l.Status = domain.LearnerActive
	}
	if l.EnrolledAt.IsZero() {
		l.EnrolledAt = domain.NewDate(s.now())
	}
	return s.Service.Create(ctx, l)
}

func (s *service) Update(ctx context.Context, id int64, l *domain.Learner) (*domain.Learner, error) {
	normalize(l)
	l.ID = id
	return s.Service.Update(ctx, id, l)
}

func normalize(l *domain.Learner) {
	l.FirstName = strings.TrimSpace(l.FirstName)
	l.LastName = strings.TrimSpace(l.LastName)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Phone = strings.TrimSpace(l.Phone)
}

// Profile loads the learner, then its group, payments, attendance and notifications in parallel.
// A missing group is tolerated; any other failure fails the call.
func (s *service) Profile(ctx context.Context, id int64) (*Profile, error) {
	l, err := s.learners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Profile{Learner: l}

	g, gctx := errgroup.WithContext(ctx)
	if l.GroupID != 0 {
		g.Go(func() error {
			grp, err := s.groups.Get(gctx, l.GroupID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			p.Group = grp
			return err
		})
	}
	g.Go(func() (err error) {
		p.Payments, err = s.payments.ListByLearner(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		p.Attendance, err = s.attendance.ListByLearner(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		p.Notifications, err = s.notifications.ListByLearner(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.AttendanceRate = domain.AttendanceRate(p.Attendance)
	for _, pay := range p.Payments {
		if pay.Status == domain.PaymentPaid {
			p.TotalPaid += pay.Amount
		} else {
			p.TotalOutstanding += pay.Amount
		}
	}
	for _, n := range p.Notifications {
		if !bool(n.Read) {
			p.UnreadNotifications++
		}
	}
	return p, nil
}
