package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hiredesk/hiredesk/internal/auth"
	"github.com/hiredesk/hiredesk/internal/models"
	pgrepo "github.com/hiredesk/hiredesk/internal/repositories/postgres"
	"github.com/hiredesk/hiredesk/internal/utils"
)

const minPasswordLength = 8

type AuthService interface {
	// Register creates an account and returns it with a fresh token.
	// The requested role is taken at face value: the platform lets
	// anyone sign up as admin. Known trust boundary, kept on purpose.
	Register(ctx context.Context, name, email, password, role string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	users  pgrepo.UserRepository
	tokens auth.TokenManager
}

func NewAuthService(users pgrepo.UserRepository, tokens auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	const op = "AuthService.Register"

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "name, email and password are required", nil)
	}
	if !strings.Contains(email, "@") {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "invalid email address", nil)
	}
	if len(password) < minPasswordLength {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}
	if role == "" {
		role = string(models.RoleUser)
	}
	if !models.ValidRole(role) {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "role must be 'user' or 'admin'", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRole(role),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, "", utils.E(utils.CodeConflict, op, "email already registered", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// keep unknown-email timing close to the mismatch path
			utils.BurnPasswordCheck(password)
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
