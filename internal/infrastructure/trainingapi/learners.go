package trainingapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-training-admin/internal/domain"
)

// Learners is the /apprenants collection.
type Learners struct {
	*Resource[domain.Learner]
}

// ListByGroup returns the members of a group.
func (l *Learners) ListByGroup(ctx context.Context, groupID int64) ([]domain.Learner, error) {
	return chain(ctx, "apprenants.by_group",
		try("group route", func(ctx context.Context) ([]domain.Learner, error) {
			return getList[domain.Learner](ctx, l.c, idPath(l.path+"/groupe", groupID), nil)
		}),
		try("query param", func(ctx context.Context) ([]domain.Learner, error) {
			return getList[domain.Learner](ctx, l.c, l.path, url.Values{"groupeId": {strconv.FormatInt(groupID, 10)}})
		}),
		try("local filter", func(ctx context.Context) ([]domain.Learner, error) {
			all, err := getList[domain.Learner](ctx, l.c, l.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.Learner) bool { return x.GroupID == groupID }), nil
		}),
	)
}
