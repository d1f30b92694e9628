package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"diet-backend/internal/auth"
	"diet-backend/internal/cache"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/workflow"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any failed login so callers cannot
// tell unknown emails from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	Repo       repositories.UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo repositories.UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a staff account under exactly one role and signs the
// caller in.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, workflow.Validation("name, email, and password are required")
	}
	if err := auth.CheckPassword(req.Password); err != nil {
		return nil, workflow.Validation("%v", err)
	}
	if !req.Role.Valid() {
		return nil, workflow.Validation("role must be one of manager, pantry, delivery")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		ContactNumber: req.ContactNumber,
		PasswordHash:  hashedPassword,
		Role:          req.Role,
		IsActive:      true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[Auth] Registered %s user %s", user.Role, user.Email)

	return s.respond(user)
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, workflow.Validation("email and password are required")
	}

	if userID, ok := cache.GetCachedAuth(ctx, email, req.Password); ok {
		if user, err := s.Repo.Get(ctx, userID); err == nil && user.IsActive {
			return s.respond(user)
		}
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	cache.CacheAuth(ctx, email, req.Password, user.ID)
	return s.respond(user)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns users, optionally restricted to one role.
func (s *UserService) ListUsers(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role != "" && !role.Valid() {
		return nil, workflow.Validation("unknown role %q", role)
	}
	return s.Repo.List(ctx, role)
}

func (s *UserService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
