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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CinemaService interface {
	GetCinemas(ctx context.Context, req *request.PaginatedRequest, location string) (*response.PaginatedResponse[response.CinemaResponse], error)
	GetCinemaByID(ctx context.Context, cinemaID uuid.UUID) (*response.CinemaResponse, error)
	GetCinemaShowtimes(ctx context.Context, cinemaID uuid.UUID, date string) ([]response.ShowtimeResponse, error)
	CreateCinema(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error)
	UpdateCinema(ctx context.Context, cinemaID uuid.UUID, req *request.CinemaUpdateRequest) (*response.CinemaResponse, error)
	DeleteCinema(ctx context.Context, cinemaID uuid.UUID) error
}

type cinemaService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCinemaService(repo *repository.Repository, now func() time.Time, log *zap.Logger) CinemaService {
	return &cinemaService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "cinema")),
	}
}

func (s *cinemaService) GetCinemas(ctx context.Context, req *request.PaginatedRequest, location string) (*response.PaginatedResponse[response.CinemaResponse], error) {
	location = strings.TrimSpace(location)

	cinemas, err := s.repo.Cinema.FindAll(ctx, location, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get cinemas",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.String("location", location),
		)
		return nil, fmt.Errorf("get cinemas: %w", err)
	}

	total, err := s.repo.Cinema.CountAll(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("count cinemas: %w", err)
	}

	return response.NewPaginatedResponse(response.CinemasToResponse(cinemas), req.Page, req.Limit(), total), nil
}

func (s *cinemaService) find(ctx context.Context, cinemaID uuid.UUID) (*entity.Cinema, error) {
	cinema, err := s.repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("find cinema %s: %w", cinemaID, err)
	}
	if cinema == nil {
		return nil, fmt.Errorf("cinema %s: %w", cinemaID, ErrNotFound)
	}
	return cinema, nil
}

func (s *cinemaService) GetCinemaByID(ctx context.Context, cinemaID uuid.UUID) (*response.CinemaResponse, error) {
	cinema, err := s.find(ctx, cinemaID)
	if err != nil {
		return nil, err
	}
	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) GetCinemaShowtimes(ctx context.Context, cinemaID uuid.UUID, date string) ([]response.ShowtimeResponse, error) {
	if _, err := s.find(ctx, cinemaID); err != nil {
		return nil, err
	}

	filter := repository.ShowtimeFilter{CinemaID: &cinemaID}
	if date != "" {
		from, to, err := dayBounds("date", date)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	}

	showtimes, err := s.repo.Showtime.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get showtimes of cinema %s: %w", cinemaID, err)
	}
	return response.ShowtimesToResponse(showtimes), nil
}

func (s *cinemaService) CreateCinema(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create cinema validation failed", zap.Error(err))
		return nil, err
	}

	cinema := &entity.Cinema{
		Base:       entity.NewBase(s.now()),
		Name:       strings.TrimSpace(req.Name),
		Location:   strings.TrimSpace(req.Location),
		Address:    req.Address,
		Screens:    req.Screens,
		TotalSeats: req.TotalSeats,
		Amenities:  req.Amenities,
		Contact:    req.Contact,
		Image:      req.Image,
	}
	if cinema.TotalSeats == 0 {
		cinema.TotalSeats = entity.DefaultCinemaSeats
	}

	if err := s.repo.Cinema.Create(ctx, cinema); err != nil {
		return nil, fmt.Errorf("create cinema: %w", err)
	}

	s.log.Info("Cinema created",
		zap.String("cinema_id", cinema.ID.String()),
		zap.String("name", cinema.Name),
	)

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) UpdateCinema(ctx context.Context, cinemaID uuid.UUID, req *request.CinemaUpdateRequest) (*response.CinemaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update cinema validation failed", zap.Error(err))
		return nil, err
	}

	cinema, err := s.find(ctx, cinemaID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cinema.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		cinema.Location = strings.TrimSpace(*req.Location)
	}
	if req.Address != nil {
		cinema.Address = *req.Address
	}
	if req.Screens != nil {
		cinema.Screens = *req.Screens
	}
	if req.TotalSeats != nil {
		cinema.TotalSeats = *req.TotalSeats
	}
	if req.Amenities != nil {
		cinema.Amenities = *req.Amenities
	}
	if req.Contact != nil {
		cinema.Contact = *req.Contact
	}
	if req.Image != nil {
		cinema.Image = *req.Image
	}
	cinema.UpdatedAt = s.now()

	if err := s.repo.Cinema.Update(ctx, cinema); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("cinema %s: %w", cinemaID, ErrNotFound)
		}
		return nil, fmt.Errorf("update cinema %s: %w", cinemaID, err)
	}

	s.log.Info("Cinema updated", zap.String("cinema_id", cinemaID.String()))

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) DeleteCinema(ctx context.Context, cinemaID uuid.UUID) error {
	if err := s.repo.Cinema.Delete(ctx, cinemaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("cinema %s: %w", cinemaID, ErrNotFound)
		}
		return fmt.Errorf("delete cinema %s: %w", cinemaID, err)
	}

	s.log.Info("Cinema deleted", zap.String("cinema_id", cinemaID.String()))
	return nil
}
