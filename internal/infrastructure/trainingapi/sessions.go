package trainingapi

import (
	"context"
	"net/url"

	"github.com/go-training-admin/internal/domain"
)

// Sessions is the /sessions collection: scheduled classes, not admin logins.
type Sessions struct {
	*Resource[domain.TrainingSession]
}

func (s *Sessions) ListByGroup(ctx context.Context, groupID int64) ([]domain.TrainingSession, error) {
	return chain(ctx, "sessions.by_group",
		try("group route", func(ctx context.Context) ([]domain.TrainingSession, error) {
			return getList[domain.TrainingSession](ctx, s.c, idPath(s.path+"/groupe", groupID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.TrainingSession, error) {
			all, err := getList[domain.TrainingSession](ctx, s.c, s.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.TrainingSession) bool { return x.GroupID == groupID }), nil
		}),
	)
}

func (s *Sessions) ListByTrainer(ctx context.Context, trainerID int64) ([]domain.TrainingSession, error) {
	return chain(ctx, "sessions.by_trainer",
		try("trainer route", func(ctx context.Context) ([]domain.TrainingSession, error) {
			return getList[domain.TrainingSession](ctx, s.c, idPath(s.path+"/formateur", trainerID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.TrainingSession, error) {
			all, err := getList[domain.TrainingSession](ctx, s.c, s.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.TrainingSession) bool { return x.TrainerID == trainerID }), nil
		}),
	)
}

// ListByDateRange returns sessions dated within [from, to], both inclusive.
func (s *Sessions) ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.TrainingSession, error) {
	return chain(ctx, "sessions.by_date_range",
		try("date-range route", func(ctx context.Context) ([]domain.TrainingSession, error) {
			return getList[domain.TrainingSession](ctx, s.c, s.path+"/date-range", rangeQuery(from, to))
		}),
		try("local filter", func(ctx context.Context) ([]domain.TrainingSession, error) {
			all, err := getList[domain.TrainingSession](ctx, s.c, s.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.TrainingSession) bool { return x.Date.Between(from, to) }), nil
		}),
	)
}

func rangeQuery(from, to domain.Date) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("debut", from.String())
	}
	if !to.IsZero() {
		q.Set("fin", to.String())
	}
	return q
}
