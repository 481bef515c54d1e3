package domain

import (
	"encoding/json"
	"strings"
)

type NotificationType string

const (
	NotificationPayment    NotificationType = "PAYMENT"
	NotificationAttendance NotificationType = "ATTENDANCE"
	NotificationUrgent     NotificationType = "URGENT"
	NotificationReminder   NotificationType = "REMINDER"
	NotificationGeneral    NotificationType = "GENERAL"
)

// NotificationTypes lists every known type in display order.
var NotificationTypes = []NotificationType{
	NotificationPayment,
	NotificationAttendance,
	NotificationUrgent,
	NotificationReminder,
	NotificationGeneral,
}

// ParseNotificationType matches case-insensitively; unknown or empty values become GENERAL.
func ParseNotificationType(s string) NotificationType {
	t := NotificationType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range NotificationTypes {
		if t == known {
			return t
		}
	}
	return NotificationGeneral
}

func (t *NotificationType) UnmarshalJSON(b []byte) error {
	v, err := upper(b)
	if err != nil {
		return err
	}
	*t = ParseNotificationType(v)
	return nil
}

// Notification is a message routed to a learner about payment or attendance status.
type Notification struct {
	ID        int64            `json:"id"`
	LearnerID int64            `json:"apprenantId"`
	Title     string           `json:"titre"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      ReadFlag         `json:"lu"`
	CreatedAt Timestamp        `json:"dateCreation"`
}

// UnmarshalJSON accepts the read flag under "lu", "read" or "isRead", the creation time
// under "dateCreation" or "createdAt", and the learner as a flat id or nested object.
func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	var raw struct {
		plain
		Learner    *Ref            `json:"apprenant"`
		Lu         json.RawMessage `json:"lu"`
		ReadAlt    json.RawMessage `json:"read"`
		IsRead     json.RawMessage `json:"isRead"`
		CreatedAlt *Timestamp      `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = Notification(raw.plain)
	n.LearnerID = refID(n.LearnerID, raw.Learner)
	// First key present wins, a present null included.
	for _, flag := range []json.RawMessage{raw.Lu, raw.ReadAlt, raw.IsRead} {
		if flag == nil {
			continue
		}
		if err := n.Read.UnmarshalJSON(flag); err != nil {
			return err
		}
		break
	}
	if n.CreatedAt.IsZero() && raw.CreatedAlt != nil {
		n.CreatedAt = *raw.CreatedAlt
	}
	if n.Type == "" {
		n.Type = NotificationGeneral
	}
	return nil
}
