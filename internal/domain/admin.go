package domain

import (
	"context"
	"time"
)

// Admin is an organizer account used for the login check.
type Admin struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// NewAdmin returns a new Admin. ID is set by the repository on create.
func NewAdmin(name, email, passwordHash string) *Admin {
	return &Admin{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
	}
}

// AdminView is the reduced admin representation returned on login.
// swagger:model AdminView
type AdminView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult is the outcome of a login attempt. Failures are not errors.
// swagger:model LoginResult
type LoginResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Admin   *AdminView `json:"admin"`
	Token   string     `json:"token,omitempty"`
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(subject, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AdminRepository defines the interface for admin storage
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

// AdminService defines admin authentication.
type AdminService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*Admin, error)
}
