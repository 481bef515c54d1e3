package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/id"
	"github.com/go-training-admin/internal/pkg/paging"
	"github.com/go-training-admin/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername  = "username"
	fieldEmail     = "email"
	fieldPhone     = "phone"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldRole      = "role"
	fieldEnable    = "enable"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type Service interface {
	Create(ctx context.Context, req domain.CreateAdminRequest) (*domain.Admin, error)
	List(ctx context.Context, search string, page, perPage int) (paging.Page[domain.Admin], error)
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	Update(ctx context.Context, adminID string, req domain.UpdateAdminRequest) (*domain.Admin, error)
	Delete(ctx context.Context, adminID, actorID string) error
	ChangePassword(ctx context.Context, adminID string, req ChangePasswordRequest) error
}

type adminStore interface {
	Put(ctx context.Context, a *domain.Admin) error
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Update(ctx context.Context, adminID string, updates map[string]interface{}) error
	SetPassword(ctx context.Context, adminID, hash string) error
	SoftDelete(ctx context.Context, adminID string) error
	List(ctx context.Context) ([]domain.Admin, error)
}

type sessionStore interface {
	DisableByAdmin(ctx context.Context, adminID string) error
}

type service struct {
	repo        adminStore
	sessionRepo sessionStore
	bcryptCost  int
	now         func() time.Time
}

type ServiceDeps struct {
	AdminRepo   adminStore
	SessionRepo sessionStore
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{repo: deps.AdminRepo, sessionRepo: deps.SessionRepo, bcryptCost: deps.BcryptCost, now: deps.Now}
}

func (s *service) Create(ctx context.Context, req domain.CreateAdminRequest) (*domain.Admin, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkFree(ctx, "", req.Username, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}
	now := s.now().UTC()
	a := &domain.Admin{
		AdminID:      id.New(),
		Username:     req.Username,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: domain.AuthProviderLocal,
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// checkFree fails with ErrConflict when username or email belongs to an account other than self.
func (s *service) checkFree(ctx context.Context, self, username, email string) error {
	if username != "" {
		if a, err := s.repo.GetByUsername(ctx, username); err == nil && a.AdminID != self {
			return fmt.Errorf("username already taken: %w", domain.ErrConflict)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if email != "" {
		if a, err := s.repo.GetByEmail(ctx, email); err == nil && a.AdminID != self {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, search string, page, perPage int) (paging.Page[domain.Admin], error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return paging.Page[domain.Admin]{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Admin, 0, len(admins))
	for _, a := range admins {
		if needle == "" || strings.Contains(strings.ToLower(a.Username+" "+a.Email+" "+a.FirstName+" "+a.LastName), needle) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return paging.Paginate(out, page, perPage), nil
}

func (s *service) Get(ctx context.Context, adminID string) (*domain.Admin, error) {
	a, err := s.repo.Get(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if a.DeletedAt != nil {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, adminID string, req domain.UpdateAdminRequest) (*domain.Admin, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, adminID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	var username, email string
	if req.Username != nil {
		username = *req.Username
		updates[fieldUsername] = username
	}
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		updates[fieldEmail] = email
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Role != nil {
		updates[fieldRole] = *req.Role
	}
	if req.Enable != nil {
		updates[fieldEnable] = *req.Enable
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, adminID)
	}
	if err := s.checkFree(ctx, adminID, username, email); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, adminID, updates); err != nil {
		return nil, err
	}
	if req.Enable != nil && *req.Enable == 0 {
		if err := s.sessionRepo.DisableByAdmin(ctx, adminID); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, adminID)
}

// Delete soft-deletes the account and ends its sessions. Admins cannot delete themselves.
func (s *service) Delete(ctx context.Context, adminID, actorID string) error {
	if adminID == actorID {
		return fmt.Errorf("cannot delete your own account: %w", domain.ErrBadRequest)
	}
	if err := s.repo.SoftDelete(ctx, adminID); err != nil {
		return err
	}
	return s.sessionRepo.DisableByAdmin(ctx, adminID)
}

func (s *service) ChangePassword(ctx context.Context, adminID string, req ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	a, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.SetPassword(ctx, adminID, string(hash))
}
