package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"
	"cookmyshow/internal/tokenstore"
	"cookmyshow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID    uuid.UUID
	Role      entity.UserRole
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Verify(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	// Authenticate checks a bearer token and the account behind it.
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
	// SeedAdmin creates the admin account, or promotes an existing user.
	SeedAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	repo   *repository.Repository
	tokens tokenstore.Store
	now    func() time.Time
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens tokenstore.Store,
	now func() time.Time,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		now:    now,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated: %w", ErrForbidden)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issue(user)
}

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	ttl := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	tok, err := utils.NewAccessToken(s.config.JWT.Secret, user.ID, user.Name, user.Email, string(user.Role), ttl, s.now())
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token:     tok.Token,
		ExpiresAt: tok.ExpiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) Verify(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("missing token id: %w", ErrUnauthorized)
	}

	if err := s.tokens.Revoke(ctx, tokenID, expiresAt); err != nil {
		s.log.Error("Failed to revoke token", zap.Error(err), zap.String("token_id", tokenID))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out", zap.String("token_id", tokenID))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := utils.ParseAccessToken(s.config.JWT.Secret, rawToken, s.now())
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("token has been revoked: %w", ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", ErrUnauthorized)
	}
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user no longer exists: %w", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", ErrForbidden)
	}

	// Role comes from the store so a demotion applies to live tokens.
	return &Identity{
		UserID:    user.ID,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *authService) SeedAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find admin %s: %w", email, err)
	}

	if user != nil {
		if user.IsAdmin() {
			return nil
		}
		user.Role = entity.RoleAdmin
		user.UpdatedAt = s.now()
		if err := s.repo.User.Update(ctx, user); err != nil {
			return fmt.Errorf("promote admin %s: %w", email, err)
		}
		s.log.Info("Existing user promoted to admin", zap.String("email", email))
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &entity.User{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin %s: %w", email, err)
	}

	s.log.Info("Admin account seeded", zap.String("email", email))
	return nil
}
