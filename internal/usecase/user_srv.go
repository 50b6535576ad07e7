package usecase

import (
	"context"
	"fmt"
	"time"

	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, req *request.SetActiveRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	now      func() time.Time
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, now func() time.Time, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		now:      now,
		log:      log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := s.userRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), req.Page, req.Limit(), total), nil
}

func (s *userService) SetActive(ctx context.Context, actorID, userID uuid.UUID, req *request.SetActiveRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if actorID == userID && !*req.IsActive {
		return nil, fmt.Errorf("admins cannot deactivate themselves: %w", ErrInvalidState)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	user.IsActive = *req.IsActive
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", userID, err)
	}

	s.log.Info("User activation changed",
		zap.String("user_id", userID.String()),
		zap.String("by", actorID.String()),
		zap.Bool("is_active", user.IsActive),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}
