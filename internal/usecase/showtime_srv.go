package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	GetShowtimes(ctx context.Context, query *request.ShowtimeQuery) ([]response.ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, showtimeID uuid.UUID) (*response.ShowtimeResponse, error)
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	GenerateShowtimes(ctx context.Context, req *request.GenerateShowtimesRequest) ([]response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID uuid.UUID) error
}

// randSource is the slice of math/rand the generator draws from.
type randSource interface {
	Float64() float64
	IntN(n int) int
	Perm(n int) []int
}

type showtimeService struct {
	repo *repository.Repository
	now  func() time.Time
	rand randSource
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, now func() time.Time, rand randSource, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		now:  now,
		rand: rand,
		log:  log.With(zap.String("service", "showtime")),
	}
}

// Showtime dates and times are wall-clock values in the server's zone.

func dayBounds(field, date string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(entity.DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, validationError(field, "Must match layout "+entity.DateLayout)
	}
	return from, from.AddDate(0, 0, 1), nil
}

func startsAt(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(entity.DateLayout+" "+entity.TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, validationError("time", "Must be a valid date and time")
	}
	return t, nil
}

func (s *showtimeService) GetShowtimes(ctx context.Context, query *request.ShowtimeQuery) ([]response.ShowtimeResponse, error) {
	if err := validate(query); err != nil {
		return nil, err
	}

	var filter repository.ShowtimeFilter
	if query.MovieID != "" {
		id := uuid.MustParse(query.MovieID)
		filter.MovieID = &id
	}
	if query.CinemaID != "" {
		id := uuid.MustParse(query.CinemaID)
		filter.CinemaID = &id
	}
	if query.Date != "" {
		from, to, err := dayBounds("date", query.Date)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	}

	showtimes, err := s.repo.Showtime.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get showtimes", zap.Error(err))
		return nil, fmt.Errorf("get showtimes: %w", err)
	}
	return response.ShowtimesToResponse(showtimes), nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID uuid.UUID) (*response.ShowtimeResponse, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("find showtime %s: %w", showtimeID, err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}
	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

// references loads the movie and cinema a new showtime points at.
func (s *showtimeService) references(ctx context.Context, movieID, cinemaID uuid.UUID) (*entity.Movie, *entity.Cinema, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, nil, fmt.Errorf("find movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return nil, nil, fmt.Errorf("find cinema %s: %w", cinemaID, err)
	}
	if cinema == nil {
		return nil, nil, fmt.Errorf("cinema %s: %w", cinemaID, ErrNotFound)
	}
	return movie, cinema, nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create showtime validation failed", zap.Error(err))
		return nil, err
	}

	at, err := startsAt(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	price := math.Round(req.Price*100) / 100
	if price <= 0 {
		return nil, validationError("price", "Price must be at least 0.01")
	}

	movie, cinema, err := s.references(ctx, uuid.MustParse(req.MovieID), uuid.MustParse(req.CinemaID))
	if err != nil {
		return nil, err
	}

	screen := entity.ScreenType(req.ScreenType)
	if screen == "" {
		screen = entity.ScreenStandard
	}

	showtime := &entity.Showtime{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		MovieID:      movie.ID,
		CinemaID:     cinema.ID,
		StartsAt:     at,
		ScreenType:   screen,
		Price:        price,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("create showtime: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("create showtime: %w", err)
	}
	showtime.MovieTitle, showtime.CinemaName = movie.Title, cinema.Name

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.String("cinema_id", cinema.ID.String()),
		zap.Time("starts_at", showtime.StartsAt),
	)

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) GenerateShowtimes(ctx context.Context, req *request.GenerateShowtimesRequest) ([]response.ShowtimeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if req.StartDate != "" {
		from, _, err := dayBounds("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		start = from
	}
	days := req.Days
	if days == 0 {
		days = 7
	}

	movie, cinema, err := s.references(ctx, uuid.MustParse(req.MovieID), uuid.MustParse(req.CinemaID))
	if err != nil {
		return nil, err
	}

	showtimes := generateShowtimes(s.rand, movie.ID, cinema.ID, start, days, now)
	if err := s.repo.Showtime.CreateBatch(ctx, showtimes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("generate showtimes: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("generate showtimes: %w", err)
	}
	for _, sh := range showtimes {
		sh.MovieTitle, sh.CinemaName = movie.Title, cinema.Name
	}

	s.log.Info("Showtimes generated",
		zap.String("movie_id", movie.ID.String()),
		zap.String("cinema_id", cinema.ID.String()),
		zap.Int("days", days),
		zap.Int("count", len(showtimes)),
	)

	return response.ShowtimesToResponse(showtimes), nil
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	err := s.repo.Showtime.Delete(ctx, showtimeID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	case errors.Is(err, repository.ErrShowtimeInUse):
		return fmt.Errorf("showtime %s has live bookings: %w", showtimeID, ErrConflict)
	case err != nil:
		return fmt.Errorf("delete showtime %s: %w", showtimeID, err)
	}

	s.log.Info("Showtime deleted", zap.String("showtime_id", showtimeID.String()))
	return nil
}

var (
	weekdaySlots = []string{"10:30", "13:15", "16:00", "18:45", "21:30"}
	weekendSlots = []string{"11:00", "14:00", "17:00", "19:30", "22:15"}

	eveningSlots = map[string]bool{"18:45": true, "19:30": true, "21:30": true, "22:15": true}

	basePrices = map[entity.ScreenType]float64{
		entity.ScreenStandard: 12.99,
		entity.ScreenIMAX:     18.99,
		entity.ScreenVIP:      24.99,
		entity.Screen4DX:      22.99,
	}
)

// generateShowtimes schedules two or three screenings a day for days days
// from start. Evenings lean IMAX, weekends lean VIP, prices jitter by a unit.
func generateShowtimes(rng randSource, movieID, cinemaID uuid.UUID, start time.Time, days int, now time.Time) []*entity.Showtime {
	var out []*entity.Showtime
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

		slots := weekdaySlots
		if weekend {
			slots = weekendSlots
		}

		n := 2 + rng.IntN(2)
		picked := make([]string, 0, n)
		for _, i := range rng.Perm(len(slots))[:n] {
			picked = append(picked, slots[i])
		}
		sort.Strings(picked)

		for _, slot := range picked {
			screen := entity.ScreenStandard
			if eveningSlots[slot] && rng.Float64() > 0.4 {
				screen = entity.ScreenIMAX
			}
			if weekend && rng.Float64() > 0.7 {
				screen = entity.ScreenVIP
			}
			if rng.Float64() > 0.9 {
				screen = entity.Screen4DX
			}

			price := basePrices[screen]
			switch r := rng.Float64(); {
			case r < 0.25:
				price++
			case r < 0.5:
				price--
			}

			at, _ := startsAt(date.Format(entity.DateLayout), slot)
			out = append(out, &entity.Showtime{
				BaseNoDelete: entity.NewBaseNoDelete(now),
				MovieID:      movieID,
				CinemaID:     cinemaID,
				StartsAt:     at,
				ScreenType:   screen,
				Price:        math.Round(price*100) / 100,
			})
		}
	}
	return out
}
