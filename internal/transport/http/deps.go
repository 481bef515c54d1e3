package http

import (
	"context"
	"io"
	"time"

	"github.com/go-training-admin/internal/domain"
)

// AdminRepository is the minimal interface the router requires from an admin store.
type AdminRepository interface {
	Put(ctx context.Context, a *domain.Admin) error
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Update(ctx context.Context, adminID string, updates map[string]interface{}) error
	SetPassword(ctx context.Context, adminID, hash string) error
	LinkGoogle(ctx context.Context, adminID, sub string) error
	SoftDelete(ctx context.Context, adminID string) error
	List(ctx context.Context) ([]domain.Admin, error)
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	DisableByAdmin(ctx context.Context, adminID string) error
}

// VerificationRepository is the minimal interface the router requires from a verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, adminID, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, adminID, verType string) error
}

// DispatchRepository records outbound notification deliveries.
type DispatchRepository interface {
	Put(ctx context.Context, d *domain.Dispatch) error
	ListByNotification(ctx context.Context, notificationID int64) ([]domain.Dispatch, error)
}

// ExportRepository is the minimal interface the router requires from an export store.
type ExportRepository interface {
	Put(ctx context.Context, e *domain.Export) error
	Get(ctx context.Context, exportID string) (*domain.Export, error)
	List(ctx context.Context) ([]domain.Export, error)
	Delete(ctx context.Context, exportID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// StatsCache stores the computed dashboard. A nil StatsCache disables caching.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
