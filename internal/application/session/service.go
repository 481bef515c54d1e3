package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/infrastructure/google"
	"github.com/go-training-admin/internal/pkg/id"
	pkgtoken "github.com/go-training-admin/internal/pkg/token"
)

// LoginRequest accepts a username or an email address in Username.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
}

type LoginResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, idToken, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
}

type adminStore interface {
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	LinkGoogle(ctx context.Context, adminID, sub string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

type jwtSigner interface {
	Sign(adminID, role, sessionID string) (string, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	adminRepo       adminStore
	sessionRepo     sessionStore
	jwtProvider     jwtSigner
	googleVerifier  googleVerifier
	refreshTokenDur time.Duration
	now             func() time.Time
}

type ServiceDeps struct {
	AdminRepo       adminStore
	SessionRepo     sessionStore
	JWTProvider     jwtSigner
	GoogleVerifier  googleVerifier
	RefreshTokenDur time.Duration
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		adminRepo:       deps.AdminRepo,
		sessionRepo:     deps.SessionRepo,
		jwtProvider:     deps.JWTProvider,
		googleVerifier:  deps.GoogleVerifier,
		refreshTokenDur: deps.RefreshTokenDur,
		now:             deps.Now,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	a, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		a, err = s.adminRepo.GetByEmail(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
	}
	if a.PasswordHash == "" {
		return nil, fmt.Errorf("account uses google sign-in: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !a.Enabled() {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	return s.open(ctx, a, req.UserAgent)
}

// LoginWithGoogle signs in an existing admin whose email matches a verified Google account.
// Accounts are provisioned by admins, so an unknown email is rejected rather than registered.
func (s *service) LoginWithGoogle(ctx context.Context, idToken, userAgent string) (*LoginResult, error) {
	p, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if !p.EmailVerified || p.Email == "" || p.Sub == "" {
		return nil, fmt.Errorf("google account is not verified: %w", domain.ErrUnauthorized)
	}
	a, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(p.Email))
	if err != nil {
		return nil, fmt.Errorf("no admin account for %s: %w", p.Email, domain.ErrUnauthorized)
	}
	if !a.Enabled() {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	switch a.GoogleSub {
	case p.Sub:
	case "":
		if err := s.adminRepo.LinkGoogle(ctx, a.AdminID, p.Sub); err != nil {
			return nil, err
		}
		a.GoogleSub = p.Sub
		a.AuthProvider = domain.AuthProviderGoogle
	default:
		return nil, fmt.Errorf("google account mismatch: %w", domain.ErrUnauthorized)
	}
	return s.open(ctx, a, userAgent)
}

func (s *service) open(ctx context.Context, a *domain.Admin, userAgent string) (*LoginResult, error) {
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		AdminID:          a.AdminID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		UserAgent:        userAgent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(a.AdminID, a.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Admin = a
	return &LoginResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	a, err := s.adminRepo.Get(ctx, sess.AdminID)
	if err != nil {
		return nil, err
	}
	sess.Admin = a
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	now := s.now()
	if sess.RefreshExpiresAt < now.Unix() {
		return "", "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	a, err := s.adminRepo.Get(ctx, sess.AdminID)
	if err != nil {
		return "", "", err
	}
	if !a.Enabled() {
		return "", "", fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := s.sessionRepo.RotateRefreshToken(ctx, sess.SessionID, newToken, now.Add(s.refreshTokenDur).Unix()); err != nil {
		return "", "", err
	}
	bearer, err := s.jwtProvider.Sign(a.AdminID, a.Role, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}
