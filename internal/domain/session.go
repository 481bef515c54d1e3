package domain

import "time"

// Session is a logged-in admin. It replaces the browser-side token storage:
// the client keeps only the JWT and the opaque refresh token.
type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id"`
	AdminID          string    `json:"admin_id" dynamodbav:"admin_id"`
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token"`
	RefreshExpiresAt int64     `json:"-" dynamodbav:"refresh_expires_at"`
	UserAgent        string    `json:"user_agent,omitempty" dynamodbav:"user_agent"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
	Admin            *Admin    `json:"admin,omitempty" dynamodbav:"-"`
}
