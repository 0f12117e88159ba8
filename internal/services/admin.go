package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slotbooking/internal/domain"
)

const (
	minPasswordLen  = 8
	adminRole       = "admin"
	msgLoginFailed  = "incorrect email or password"
	msgLoginSuccess = "login successful"
)

type adminService struct {
	adminRepo      domain.AdminRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewAdminService returns an AdminService. issuer may be nil, in which case
// successful logins carry no token.
func NewAdminService(adminRepo domain.AdminRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AdminService {
	return &adminService{
		adminRepo:      adminRepo,
		hasher:         hasher,
		issuer:         issuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

// Login reports bad credentials through LoginResult, not through the error.
func (s *adminService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	failed := &domain.LoginResult{Success: false, Message: msgLoginFailed}
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return failed, nil
	}
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failed, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return failed, nil
	}

	result := &domain.LoginResult{
		Success: true,
		Message: msgLoginSuccess,
		Admin:   &domain.AdminView{ID: admin.ID, Name: admin.Name, Email: admin.Email},
	}
	if s.issuer != nil {
		token, err := s.issuer.Issue(strconv.FormatInt(admin.ID, 10), admin.Email, []string{adminRole}, s.tokenExpiry)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
	}
	return result, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	email = domain.NormalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, domain.NewValidationError("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := domain.NewAdmin(name, email, hash)
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}
