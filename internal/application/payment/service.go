package payment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

// Filter narrows the payment list. Zero values mean "any".
type Filter struct {
	LearnerID int64
	Status    domain.PaymentStatus
	From      domain.Date
	To        domain.Date
	Search    string
	Page      int
	PerPage   int
}

// Totals is an amount and a count for one status.
type Totals struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	ByStatus      map[domain.PaymentStatus]Totals `json:"by_status"`
	Collected     float64                         `json:"collected"`
	Outstanding   float64                         `json:"outstanding"`
	Overdue       []domain.Payment                `json:"overdue"`
	OverdueAmount float64                         `json:"overdue_amount"`
}

type Service interface {
	List(ctx context.Context, f Filter) (paging.Page[domain.Payment], error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	Update(ctx context.Context, id int64, p *domain.Payment) (*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
	ByLearner(ctx context.Context, learnerID int64) ([]domain.Payment, error)
	ByDateRange(ctx context.Context, from, to domain.Date) ([]domain.Payment, error)
	Summary(ctx context.Context) (*Summary, error)
}

type paymentAPI interface {
	List(ctx context.Context) ([]domain.Payment, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	Create(ctx context.Context, v *domain.Payment) (*domain.Payment, error)
	Update(ctx context.Context, id int64, v *domain.Payment) (*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.Payment, error)
	ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.Payment, error)
}

type service struct {
	*catalog.Service[domain.Payment]
	payments paymentAPI
	now      func() time.Time
}

type ServiceDeps struct {
	Payments paymentAPI
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		Service: catalog.New[domain.Payment](deps.Payments, func(p domain.Payment, needle string) bool {
			return catalog.Contains(needle, p.Reference, p.Method)
		}),
		payments: deps.Payments,
		now:      deps.Now,
	}
}

func (s *service) List(ctx context.Context, f Filter) (paging.Page[domain.Payment], error) {
	var (
		items []domain.Payment
		err   error
	)
	switch {
	case f.LearnerID > 0:
		items, err = s.payments.ListByLearner(ctx, f.LearnerID)
	case !f.From.IsZero() || !f.To.IsZero():
		items, err = s.payments.ListByDateRange(ctx, f.From, f.To)
	default:
		items, err = s.payments.List(ctx)
	}
	if err != nil {
		return paging.Page[domain.Payment]{}, err
	}
	items = s.Filter(items, f.Search, func(p domain.Payment) bool {
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if (!f.From.IsZero() || !f.To.IsZero()) && !p.EffectiveDate().Between(f.From, f.To) {
			return false
		}
		return true
	})
	sortByDueDate(items)
	return paging.Paginate(items, f.Page, f.PerPage), nil
}

// Create defaults the payment date of a PAID installment to today.
func (s *service) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if p.Status == domain.PaymentPaid && p.PaidAt.IsZero() {
		p.PaidAt = domain.NewDate(s.now())
	}
	return s.Service.Create(ctx, p)
}

func (s *service) Update(ctx context.Context, id int64, p *domain.Payment) (*domain.Payment, error) {
	if p.Status == domain.PaymentPaid && p.PaidAt.IsZero() {
		p.PaidAt = domain.NewDate(s.now())
	}
	p.ID = id
	return s.Service.Update(ctx, id, p)
}

func (s *service) ByLearner(ctx context.Context, learnerID int64) ([]domain.Payment, error) {
	items, err := s.payments.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	sortByDueDate(items)
	return items, nil
}

func (s *service) ByDateRange(ctx context.Context, from, to domain.Date) ([]domain.Payment, error) {
	if !from.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("fin %s is before debut %s: %w", to, from, domain.ErrBadRequest)
	}
	items, err := s.payments.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sortByDueDate(items)
	return items, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	items, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(items, s.now()), nil
}

// Summarize totals payments per status. Outstanding covers every unpaid status.
func Summarize(items []domain.Payment, now time.Time) *Summary {
	sum := &Summary{
		ByStatus: map[domain.PaymentStatus]Totals{
			domain.PaymentPaid:    {},
			domain.PaymentPending: {},
			domain.PaymentPartial: {},
			domain.PaymentOverdue: {},
		},
		Overdue: []domain.Payment{},
	}
	for _, p := range items {
		t := sum.ByStatus[p.Status]
		t.Count++
		t.Amount += p.Amount
		sum.ByStatus[p.Status] = t

		if p.Status == domain.PaymentPaid {
			sum.Collected += p.Amount
			continue
		}
		sum.Outstanding += p.Amount
		if p.IsOverdue(now) {
			sum.Overdue = append(sum.Overdue, p)
			sum.OverdueAmount += p.Amount
		}
	}
	for k, t := range sum.ByStatus {
		t.Amount = round2(t.Amount)
		sum.ByStatus[k] = t
	}
	sum.Collected = round2(sum.Collected)
	sum.Outstanding = round2(sum.Outstanding)
	sum.OverdueAmount = round2(sum.OverdueAmount)
	sortByDueDate(sum.Overdue)
	return sum
}

func sortByDueDate(items []domain.Payment) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DueDate.Equal(items[j].DueDate.Time) {
			return items[i].DueDate.Time.Before(items[j].DueDate.Time)
		}
		return items[i].ID < items[j].ID
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
