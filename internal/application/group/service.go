package group

import (
	"context"
	"fmt"

	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/application/schedule"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

type Service interface {
	List(ctx context.Context, q catalog.Query) (paging.Page[domain.Group], error)
	Get(ctx context.Context, id int64) (*domain.Group, error)
	Create(ctx context.Context, g *domain.Group) (*domain.Group, error)
	Update(ctx context.Context, id int64, g *domain.Group) (*domain.Group, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, groupID int64) ([]domain.Learner, error)
	ByProgram(ctx context.Context, programID int64) ([]domain.Group, error)
	Schedule(ctx context.Context, groupID int64) ([]domain.TrainingSession, error)
}

type groupAPI interface {
	List(ctx context.Context) ([]domain.Group, error)
	Get(ctx context.Context, id int64) (*domain.Group, error)
	Create(ctx context.Context, v *domain.Group) (*domain.Group, error)
	Update(ctx context.Context, id int64, v *domain.Group) (*domain.Group, error)
	Delete(ctx context.Context, id int64) error
	ListByProgram(ctx context.Context, programID int64) ([]domain.Group, error)
}

type learnerAPI interface {
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Learner, error)
}

type sessionAPI interface {
	ListByGroup(ctx context.Context, groupID int64) ([]domain.TrainingSession, error)
}

type service struct {
	*catalog.Service[domain.Group]
	groups   groupAPI
	learners learnerAPI
	sessions sessionAPI
}

type ServiceDeps struct {
	Groups   groupAPI
	Learners learnerAPI
	Sessions sessionAPI
}

func NewService(deps ServiceDeps) Service {
	return &service{
		Service: catalog.New[domain.Group](deps.Groups, func(g domain.Group, needle string) bool {
			return catalog.Contains(needle, g.Name)
		}),
		groups:   deps.Groups,
		learners: deps.Learners,
		sessions: deps.Sessions,
	}
}

func (s *service) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if err := checkDates(g); err != nil {
		return nil, err
	}
	return s.Service.Create(ctx, g)
}

func (s *service) Update(ctx context.Context, id int64, g *domain.Group) (*domain.Group, error) {
	if err := checkDates(g); err != nil {
		return nil, err
	}
	g.ID = id
	return s.Service.Update(ctx, id, g)
}

func checkDates(g *domain.Group) error {
	if g.EndDate.Before(g.StartDate) {
		return fmt.Errorf("dateFin %s is before dateDebut %s: %w", g.EndDate, g.StartDate, domain.ErrBadRequest)
	}
	return nil
}

func (s *service) Members(ctx context.Context, groupID int64) ([]domain.Learner, error) {
	return s.learners.ListByGroup(ctx, groupID)
}

func (s *service) ByProgram(ctx context.Context, programID int64) ([]domain.Group, error) {
	return s.groups.ListByProgram(ctx, programID)
}

// Schedule returns the group's sessions in chronological order.
func (s *service) Schedule(ctx context.Context, groupID int64) ([]domain.TrainingSession, error) {
	items, err := s.sessions.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	schedule.SortChronologically(items)
	return items, nil
}
