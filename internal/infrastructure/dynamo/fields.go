package dynamo

// DynamoDB attribute names used in update expressions across all repos.
const (
	fieldEnable           = "enable"
	fieldDeletedAt        = "deleted_at"
	fieldUpdatedAt        = "updated_at"
	fieldPasswordHash     = "password_hash"
	fieldGoogleSub        = "google_sub"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
)
