package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/id"
	"github.com/go-training-admin/internal/pkg/validate"
)

// Content is what gets sent; Channels adds outbound delivery on top of the in-app notification.
type Content struct {
	Title    string                  `json:"titre" validate:"required,max=200"`
	Message  string                  `json:"message" validate:"required,max=2000"`
	Type     domain.NotificationType `json:"type"`
	Channels []domain.Channel        `json:"channels" validate:"omitempty,dive,oneof=sms email"`
}

type SendRequest struct {
	LearnerID int64 `json:"apprenantId" validate:"required"`
	Content
}

type SendResult struct {
	Notification *domain.Notification `json:"notification"`
	Dispatches   []domain.Dispatch    `json:"dispatches"`
}

type BroadcastResult struct {
	LearnerID      int64             `json:"apprenantId"`
	NotificationID int64             `json:"notificationId,omitempty"`
	Dispatches     []domain.Dispatch `json:"dispatches,omitempty"`
	Error          string            `json:"error,omitempty"`
}

func (s *service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	learner, err := s.learners.Get(ctx, req.LearnerID)
	if err != nil {
		return nil, err
	}
	return s.sendTo(ctx, learner, req.Content)
}

// Broadcast sends the same content to every learner of a group. One learner's failure is
// reported in its result and does not stop the others.
func (s *service) Broadcast(ctx context.Context, groupID int64, c Content) ([]BroadcastResult, error) {
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	learners, err := s.learners.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	results := make([]BroadcastResult, 0, len(learners))
	for i := range learners {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r := BroadcastResult{LearnerID: learners[i].ID}
		sent, err := s.sendTo(ctx, &learners[i], c)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.NotificationID = sent.Notification.ID
			r.Dispatches = sent.Dispatches
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *service) sendTo(ctx context.Context, learner *domain.Learner, c Content) (*SendResult, error) {
	n := &domain.Notification{
		LearnerID: learner.ID,
		Title:     c.Title,
		Message:   c.Message,
		Type:      domain.ParseNotificationType(string(c.Type)),
		CreatedAt: domain.NewTimestamp(s.now().UTC()),
	}
	created, err := s.notifications.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	res := &SendResult{Notification: created, Dispatches: []domain.Dispatch{}}
	for _, ch := range dedupe(c.Channels) {
		res.Dispatches = append(res.Dispatches, s.deliver(ctx, learner, created, ch))
	}
	return res, nil
}

// deliver pushes n on one channel and records the attempt. Delivery errors end up in the
// returned Dispatch, never in an error return.
func (s *service) deliver(ctx context.Context, learner *domain.Learner, n *domain.Notification, ch domain.Channel) domain.Dispatch {
	d := domain.Dispatch{
		DispatchID:     id.New(),
		NotificationID: n.ID,
		LearnerID:      learner.ID,
		Channel:        ch,
		CreatedAt:      s.now().UTC(),
	}
	var err error
	switch ch {
	case domain.ChannelSMS:
		d.Destination = learner.Phone
		if d.Destination != "" && s.sms != nil {
			err = s.sms.SendSMS(ctx, d.Destination, n.Title+": "+n.Message)
		}
	case domain.ChannelEmail:
		d.Destination = learner.Email
		if d.Destination != "" && s.mail != nil {
			err = s.mail.SendEmail(d.Destination, n.Title, n.Message)
		}
	}
	switch {
	case d.Destination == "":
		d.Status = domain.DispatchSkipped
		d.Error = fmt.Sprintf("no %s destination on file", ch)
	case (ch == domain.ChannelSMS && s.sms == nil) || (ch == domain.ChannelEmail && s.mail == nil):
		d.Status = domain.DispatchSkipped
		d.Error = fmt.Sprintf("%s channel not configured", ch)
	case err != nil:
		d.Status = domain.DispatchFailed
		d.Error = err.Error()
		slog.Warn("notification delivery failed", "notification_id", n.ID, "channel", ch, "err", err)
	default:
		d.Status = domain.DispatchSent
	}
	if perr := s.dispatches.Put(ctx, &d); perr != nil {
		slog.Warn("failed to record dispatch", "dispatch_id", d.DispatchID, "err", perr)
	}
	return d
}

func dedupe(chs []domain.Channel) []domain.Channel {
	seen := make(map[domain.Channel]bool, len(chs))
	out := make([]domain.Channel, 0, len(chs))
	for _, c := range chs {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
