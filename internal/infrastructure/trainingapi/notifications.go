package trainingapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-training-admin/internal/domain"
)

// Notifications is the /notifications collection.
type Notifications struct {
	*Resource[domain.Notification]
}

func (n *Notifications) ListByLearner(ctx context.Context, learnerID int64) ([]domain.Notification, error) {
	return chain(ctx, "notifications.by_learner",
		try("learner route", func(ctx context.Context) ([]domain.Notification, error) {
			return getList[domain.Notification](ctx, n.c, idPath(n.path+"/apprenant", learnerID), nil)
		}),
		// Backends that ignore unknown query params return the whole collection here.
		try("query param", func(ctx context.Context) ([]domain.Notification, error) {
			items, err := getList[domain.Notification](ctx, n.c, n.path, url.Values{"apprenantId": {strconv.FormatInt(learnerID, 10)}})
			if err != nil {
				return nil, err
			}
			return filter(items, ownedBy(learnerID)), nil
		}),
		try("local filter", func(ctx context.Context) ([]domain.Notification, error) {
			all, err := getList[domain.Notification](ctx, n.c, n.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, ownedBy(learnerID)), nil
		}),
	)
}

func ownedBy(learnerID int64) func(domain.Notification) bool {
	return func(x domain.Notification) bool { return x.LearnerID == learnerID }
}

// UnreadCount asks the count route and otherwise counts the learner's unread list.
func (n *Notifications) UnreadCount(ctx context.Context, learnerID int64) (int, error) {
	return chain(ctx, "notifications.unread_count",
		try("count route", func(ctx context.Context) (int, error) {
			data, err := n.c.raw(ctx, http.MethodGet, idPath(n.path+"/apprenant", learnerID)+"/non-lues/count", nil, nil)
			if err != nil {
				return 0, err
			}
			c, err := decodeCount(data)
			if err != nil {
				return 0, &DecodeError{Path: n.path + "/non-lues/count", Err: err}
			}
			return c, nil
		}),
		try("count locally", func(ctx context.Context) (int, error) {
			items, err := n.ListByLearner(ctx, learnerID)
			if err != nil {
				return 0, err
			}
			unread := 0
			for _, it := range items {
				if !it.Read {
					unread++
				}
			}
			return unread, nil
		}),
	)
}

// MarkRead sets the read flag of one notification.
func (n *Notifications) MarkRead(ctx context.Context, id int64) error {
	_, err := chain(ctx, "notifications.mark_read",
		try("read route", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.c.do(ctx, http.MethodPut, idPath(n.path, id)+"/lu", nil, nil, nil)
		}),
		try("patch", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.c.do(ctx, http.MethodPatch, idPath(n.path, id), nil, map[string]bool{"lu": true}, nil)
		}),
		try("full update", func(ctx context.Context) (struct{}, error) {
			var cur domain.Notification
			if err := n.c.do(ctx, http.MethodGet, idPath(n.path, id), nil, nil, &cur); err != nil {
				return struct{}{}, err
			}
			cur.Read = true
			return struct{}{}, n.c.do(ctx, http.MethodPut, idPath(n.path, id), nil, &cur, nil)
		}),
	)
	return err
}

// MarkAllRead marks every notification of a learner as read. unreadIDs is used when the
// API has no bulk route; each of them is then marked individually.
func (n *Notifications) MarkAllRead(ctx context.Context, learnerID int64, unreadIDs []int64) error {
	_, err := chain(ctx, "notifications.mark_all_read",
		try("bulk route", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.c.do(ctx, http.MethodPut, idPath(n.path+"/apprenant", learnerID)+"/lu", nil, nil, nil)
		}),
		try("one by one", func(ctx context.Context) (struct{}, error) {
			for _, id := range unreadIDs {
				if err := n.MarkRead(ctx, id); err != nil {
					return struct{}{}, err
				}
			}
			return struct{}{}, nil
		}),
	)
	return err
}
