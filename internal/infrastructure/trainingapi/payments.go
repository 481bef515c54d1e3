package trainingapi

import (
	"context"

	"github.com/go-training-admin/internal/domain"
)

// Payments is the /paiements collection.
type Payments struct {
	*Resource[domain.Payment]
}

func (p *Payments) ListByLearner(ctx context.Context, learnerID int64) ([]domain.Payment, error) {
	return chain(ctx, "paiements.by_learner",
		try("learner route", func(ctx context.Context) ([]domain.Payment, error) {
			return getList[domain.Payment](ctx, p.c, idPath(p.path+"/apprenant", learnerID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.Payment, error) {
			all, err := getList[domain.Payment](ctx, p.c, p.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.Payment) bool { return x.LearnerID == learnerID }), nil
		}),
	)
}

// ListByDateRange matches on the payment date, or on the due date for unpaid installments.
func (p *Payments) ListByDateRange(ctx context.Context, from, to domain.Date) ([]domain.Payment, error) {
	return chain(ctx, "paiements.by_date_range",
		try("date-range route", func(ctx context.Context) ([]domain.Payment, error) {
			return getList[domain.Payment](ctx, p.c, p.path+"/date-range", rangeQuery(from, to))
		}),
		try("local filter", func(ctx context.Context) ([]domain.Payment, error) {
			all, err := getList[domain.Payment](ctx, p.c, p.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.Payment) bool { return x.EffectiveDate().Between(from, to) }), nil
		}),
	)
}
