package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAnalyticsDays = 365

type AnalyticsService interface {
	Overview(ctx context.Context) (*response.AnalyticsOverview, error)
	Revenue(ctx context.Context, days int) ([]response.RevenuePoint, error)
	Users(ctx context.Context, days int) ([]response.UsersPoint, error)
	MoviePerformance(ctx context.Context) ([]response.MoviePerformance, error)
}

type analyticsService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAnalyticsService(repo *repository.Repository, now func() time.Time, log *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "analytics")),
	}
}

func clampDays(days int) int {
	return max(1, min(days, maxAnalyticsDays))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *analyticsService) Overview(ctx context.Context) (*response.AnalyticsOverview, error) {
	cinemas, err := s.repo.Cinema.CountAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count cinemas: %w", err)
	}
	movies, err := s.repo.Movie.CountAll(ctx, repository.MovieFilter{})
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}
	showtimes, err := s.repo.Showtime.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count showtimes: %w", err)
	}
	bookings, err := s.repo.Booking.FindCreatedSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	out := &response.AnalyticsOverview{
		TotalCinemas:   cinemas,
		TotalMovies:    movies,
		TotalShowtimes: showtimes,
		TotalBookings:  int64(len(bookings)),
		CinemaBookings: map[string]int64{},
		MovieBookings:  map[string]int64{},
	}
	for _, b := range bookings {
		if !b.Status.IsLive() {
			continue
		}
		out.CinemaBookings[b.CinemaID.String()]++
		out.MovieBookings[b.MovieID.String()]++
		out.TotalRevenue += b.TotalPrice
	}
	out.TotalRevenue = roundCents(out.TotalRevenue)

	return out, nil
}

type dayBucket struct {
	date  string
	label string
}

// buckets returns the last days calendar days ending today, oldest first,
// labelled by weekday, day of month or month depending on the span.
func buckets(now time.Time, days int) (time.Time, []dayBucket) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	out := make([]dayBucket, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		var label string
		switch {
		case days <= 7:
			label = d.Format("Mon")
		case days <= 31:
			label = d.Format("Jan 2")
		default:
			label = d.Format("Jan")
		}
		out = append(out, dayBucket{date: d.Format(entity.DateLayout), label: label})
	}
	return start, out
}

func (s *analyticsService) bookingsSince(ctx context.Context, days int) (time.Time, []dayBucket, []*entity.Booking, error) {
	now := s.now()
	start, series := buckets(now, clampDays(days))
	bookings, err := s.repo.Booking.FindCreatedSince(ctx, start)
	if err != nil {
		return time.Time{}, nil, nil, fmt.Errorf("load bookings since %s: %w", start.Format(entity.DateLayout), err)
	}
	return now, series, bookings, nil
}

func (s *analyticsService) Revenue(ctx context.Context, days int) ([]response.RevenuePoint, error) {
	now, series, bookings, err := s.bookingsSince(ctx, days)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]float64)
	for _, b := range bookings {
		if b.Status.IsLive() {
			byDay[b.CreatedAt.In(now.Location()).Format(entity.DateLayout)] += b.TotalPrice
		}
	}

	out := make([]response.RevenuePoint, 0, len(series))
	for _, d := range series {
		out = append(out, response.RevenuePoint{Date: d.date, Label: d.label, Revenue: roundCents(byDay[d.date])})
	}
	return out, nil
}

func (s *analyticsService) Users(ctx context.Context, days int) ([]response.UsersPoint, error) {
	now, series, bookings, err := s.bookingsSince(ctx, days)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]map[uuid.UUID]bool)
	for _, b := range bookings {
		if !b.Status.IsLive() {
			continue
		}
		day := b.CreatedAt.In(now.Location()).Format(entity.DateLayout)
		if byDay[day] == nil {
			byDay[day] = make(map[uuid.UUID]bool)
		}
		byDay[day][b.UserID] = true
	}

	out := make([]response.UsersPoint, 0, len(series))
	for _, d := range series {
		out = append(out, response.UsersPoint{Date: d.date, Label: d.label, Users: len(byDay[d.date])})
	}
	return out, nil
}

func (s *analyticsService) MoviePerformance(ctx context.Context) ([]response.MoviePerformance, error) {
	bookings, err := s.repo.Booking.FindCreatedSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	perf := make(map[uuid.UUID]*response.MoviePerformance)
	for _, b := range bookings {
		if !b.Status.IsLive() {
			continue
		}
		p, ok := perf[b.MovieID]
		if !ok {
			p = &response.MoviePerformance{MovieID: b.MovieID.String()}
			perf[b.MovieID] = p
		}
		p.Title, p.Poster = b.MovieTitle, b.MoviePoster
		p.Bookings++
		p.Seats += len(b.Seats)
		p.Revenue += b.TotalPrice
	}

	out := make([]response.MoviePerformance, 0, len(perf))
	for _, p := range perf {
		p.Revenue = roundCents(p.Revenue)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}
