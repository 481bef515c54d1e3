package domain

import "time"

// Admin roles. Staff can operate day-to-day screens; admins also manage accounts,
// exports and destructive operations.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// Admin is a back-office account of the gateway. Learners and trainers never log in here.
type Admin struct {
	AdminID      string     `json:"id" dynamodbav:"admin_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	FirstName    string     `json:"first_name" dynamodbav:"first_name"`
	LastName     string     `json:"last_name" dynamodbav:"last_name"`
	AuthProvider string     `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "google"
	GoogleSub    string     `json:"-" dynamodbav:"google_sub"`
	Enable       int        `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Enabled reports whether the account may log in.
func (a *Admin) Enabled() bool { return a.Enable == 1 }

type CreateAdminRequest struct {
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Role      string  `json:"role" validate:"omitempty,oneof=admin staff"`
}

type UpdateAdminRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin staff"`
	Enable    *int    `json:"enable" validate:"omitempty,oneof=0 1"` // 1 = enabled, 0 = disabled
}
