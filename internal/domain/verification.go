package domain

// VerificationReset is the type of a password-reset code.
const VerificationReset = "reset"

// Verification stores short-lived codes.
// PK: admin_id, SK: type. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type Verification struct {
	AdminID   string `json:"admin_id" dynamodbav:"admin_id"`
	Type      string `json:"type" dynamodbav:"type"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
