// Package recovery resets forgotten admin passwords with an emailed one-time code.
package recovery

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-training-admin/internal/domain"
	pkgtoken "github.com/go-training-admin/internal/pkg/token"
	"github.com/go-training-admin/internal/pkg/validate"
)

// CodeTTL is how long a reset code stays valid.
const CodeTTL = 15 * time.Minute

type RequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type Service interface {
	Request(ctx context.Context, in RequestInput) error
	Reset(ctx context.Context, in ResetInput) error
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	SetPassword(ctx context.Context, adminID, hash string) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, adminID, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, adminID, verType string) error
}

type sessionStore interface {
	DisableByAdmin(ctx context.Context, adminID string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	admins        adminStore
	verifications verificationStore
	sessions      sessionStore
	mailer        mailer
	bcryptCost    int
	now           func() time.Time
}

type ServiceDeps struct {
	AdminRepo        adminStore
	VerificationRepo verificationStore
	SessionRepo      sessionStore
	Mailer           mailer
	BcryptCost       int
	Now              func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		admins:        deps.AdminRepo,
		verifications: deps.VerificationRepo,
		sessions:      deps.SessionRepo,
		mailer:        deps.Mailer,
		bcryptCost:    deps.BcryptCost,
		now:           deps.Now,
	}
}

// Request emails a reset code. Unknown or disabled accounts succeed silently so the
// endpoint cannot be used to probe which emails exist.
func (s *service) Request(ctx context.Context, in RequestInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	a, err := s.admins.GetByEmail(ctx, strings.ToLower(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("password recovery for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if !a.Enabled() {
		return nil
	}
	code, err := pkgtoken.NewNumericCode(6)
	if err != nil {
		return err
	}
	v := &domain.Verification{
		AdminID:   a.AdminID,
		Type:      domain.VerificationReset,
		Code:      code,
		ExpiresAt: s.now().Add(CodeTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	body := fmt.Sprintf("Votre code de réinitialisation : %s\nIl expire dans %d minutes.", code, int(CodeTTL.Minutes()))
	return s.mailer.SendEmail(a.Email, "Réinitialisation du mot de passe", body)
}

func (s *service) Reset(ctx context.Context, in ResetInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	a, err := s.admins.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	v, err := s.verifications.Get(ctx, a.AdminID, domain.VerificationReset)
	if err != nil {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(in.Code)) != 1 {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < s.now().Unix() {
		return fmt.Errorf("code expired: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.admins.SetPassword(ctx, a.AdminID, string(hash)); err != nil {
		return err
	}
	if err := s.verifications.Delete(ctx, a.AdminID, domain.VerificationReset); err != nil {
		slog.Warn("failed to delete reset code", "admin_id", a.AdminID, "err", err)
	}
	return s.sessions.DisableByAdmin(ctx, a.AdminID)
}
