package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-training-admin/internal/domain"
)

// GenerateResult reports what a generator run did.
type GenerateResult struct {
	Created       int                   `json:"created"`
	Skipped       int                   `json:"skipped"`
	Notifications []domain.Notification `json:"notifications"`
}

// paymentRef tags a payment inside reminder messages. The brackets keep "#1" from matching "#12".
func paymentRef(p domain.Payment) string {
	ref := p.Reference
	if ref == "" {
		ref = fmt.Sprintf("#%d", p.ID)
	}
	return "[réf. " + ref + "]"
}

// unreadOfType groups the unread notifications of type t by learner.
func unreadOfType(items []domain.Notification, t domain.NotificationType) map[int64][]domain.Notification {
	out := make(map[int64][]domain.Notification)
	for _, n := range items {
		if n.Type == t && IsUnread(n) {
			out[n.LearnerID] = append(out[n.LearnerID], n)
		}
	}
	return out
}

// RemindOverduePayments creates one PAYMENT notification per unsettled payment due before now,
// unless the learner still has an unread reminder for that payment.
func (s *service) RemindOverduePayments(ctx context.Context, now time.Time) (*GenerateResult, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := unreadOfType(existing, domain.NotificationPayment)

	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	res := &GenerateResult{Notifications: []domain.Notification{}}
	for _, p := range payments {
		if !p.IsOverdue(now) || p.LearnerID == 0 {
			continue
		}
		ref := paymentRef(p)
		if hasMessage(pending[p.LearnerID], ref) {
			res.Skipped++
			continue
		}
		msg := fmt.Sprintf("Le paiement de %.2f € prévu le %s n'a pas été réglé %s.", p.Amount, p.DueDate, ref)
		created, err := s.notifications.Create(ctx, &domain.Notification{
			LearnerID: p.LearnerID,
			Title:     "Paiement en retard",
			Message:   msg,
			Type:      domain.NotificationPayment,
			CreatedAt: domain.NewTimestamp(s.now().UTC()),
		})
		if err != nil {
			return res, err
		}
		pending[p.LearnerID] = append(pending[p.LearnerID], *created)
		res.Notifications = append(res.Notifications, *created)
		res.Created++
	}
	return res, nil
}

// FlagAbsences creates one ATTENDANCE notification for every learner with at least threshold
// ABSENT records, unless one is already waiting unread. threshold < 1 uses the configured default.
func (s *service) FlagAbsences(ctx context.Context, threshold int) (*GenerateResult, error) {
	if threshold < 1 {
		threshold = s.absenceThreshold
	}
	records, err := s.attendance.List(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := unreadOfType(existing, domain.NotificationAttendance)

	absences := make(map[int64]int)
	for _, r := range records {
		if r.Status == domain.AttendanceAbsent && r.LearnerID != 0 {
			absences[r.LearnerID]++
		}
	}
	learners := make([]int64, 0, len(absences))
	for l, n := range absences {
		if n >= threshold {
			learners = append(learners, l)
		}
	}
	sort.Slice(learners, func(i, j int) bool { return learners[i] < learners[j] })

	res := &GenerateResult{Notifications: []domain.Notification{}}
	for _, l := range learners {
		if len(pending[l]) > 0 {
			res.Skipped++
			continue
		}
		created, err := s.notifications.Create(ctx, &domain.Notification{
			LearnerID: l,
			Title:     "Absences répétées",
			Message:   fmt.Sprintf("%d absences ont été enregistrées. Merci de contacter l'administration.", absences[l]),
			Type:      domain.NotificationAttendance,
			CreatedAt: domain.NewTimestamp(s.now().UTC()),
		})
		if err != nil {
			return res, err
		}
		res.Notifications = append(res.Notifications, *created)
		res.Created++
	}
	return res, nil
}

func hasMessage(items []domain.Notification, fragment string) bool {
	for _, n := range items {
		if strings.Contains(n.Message, fragment) {
			return true
		}
	}
	return false
}
