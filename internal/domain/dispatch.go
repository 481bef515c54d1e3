package domain

import "time"

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

const (
	DispatchSent    = "sent"
	DispatchFailed  = "failed"
	DispatchSkipped = "skipped"
)

// Dispatch records one delivery attempt of a notification on an outbound channel.
type Dispatch struct {
	DispatchID     string    `json:"id" dynamodbav:"dispatch_id"`
	NotificationID int64     `json:"notification_id" dynamodbav:"notification_id"`
	LearnerID      int64     `json:"learner_id" dynamodbav:"learner_id"`
	Channel        Channel   `json:"channel" dynamodbav:"channel"`
	Destination    string    `json:"destination" dynamodbav:"destination"`
	Status         string    `json:"status" dynamodbav:"status"`
	Error          string    `json:"error,omitempty" dynamodbav:"error,omitempty"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
