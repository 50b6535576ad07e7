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

type MovieService interface {
	GetMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID uuid.UUID, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID uuid.UUID) error
}

type movieService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	now func() time.Time,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	filter := repository.MovieFilter{
		Query: strings.TrimSpace(req.Query),
		Genre: strings.TrimSpace(req.Genre),
	}

	movies, err := s.repo.Movie.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.String("q", filter.Query),
		)
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), req.Page, req.Limit(), total), nil
}

func (s *movieService) find(ctx context.Context, movieID uuid.UUID) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
	}
	return movie, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error) {
	movie, err := s.find(ctx, movieID)
	if err != nil {
		return nil, err
	}
	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(entity.DateLayout, value, time.UTC)
	if err != nil {
		return nil, validationError(field, "Must match layout "+entity.DateLayout)
	}
	return &d, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create movie validation failed", zap.Error(err))
		return nil, err
	}

	releaseDate, err := parseDate("release_date", req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	movie := &entity.Movie{
		Base:            entity.NewBase(s.now()),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Poster:          req.Poster,
		Banner:          req.Banner,
		Rating:          req.Rating,
		DurationMinutes: req.DurationMinutes,
		ReleaseDate:     releaseDate,
		Genres:          req.Genres,
		Language:        req.Language,
		Director:        req.Director,
		Cast:            req.Cast,
		TrailerURL:      req.TrailerURL,
	}
	if movie.Language == "" {
		movie.Language = "English"
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID uuid.UUID, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update movie validation failed", zap.Error(err))
		return nil, err
	}

	movie, err := s.find(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.Poster != nil {
		movie.Poster = *req.Poster
	}
	if req.Banner != nil {
		movie.Banner = *req.Banner
	}
	if req.Rating != nil {
		movie.Rating = *req.Rating
	}
	if req.DurationMinutes != nil {
		movie.DurationMinutes = *req.DurationMinutes
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseDate("release_date", *req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		movie.ReleaseDate = releaseDate
	}
	if req.Genres != nil {
		movie.Genres = *req.Genres
	}
	if req.Language != nil {
		movie.Language = *req.Language
	}
	if req.Director != nil {
		movie.Director = *req.Director
	}
	if req.Cast != nil {
		movie.Cast = *req.Cast
	}
	if req.TrailerURL != nil {
		movie.TrailerURL = *req.TrailerURL
	}
	movie.UpdatedAt = s.now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
		}
		return nil, fmt.Errorf("update movie %s: %w", movieID, err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", movieID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
		}
		return fmt.Errorf("delete movie %s: %w", movieID, err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID.String()))
	return nil
}
