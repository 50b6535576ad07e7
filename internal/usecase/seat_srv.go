package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"
	"cookmyshow/internal/metrics"
	"cookmyshow/internal/seatlock"
	"cookmyshow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatService interface {
	// GetSeatMap reports every seat of a showtime. viewer may be uuid.Nil
	// for anonymous callers.
	GetSeatMap(ctx context.Context, showtimeID, viewer uuid.UUID) (*response.SeatMapResponse, error)
	HoldSeats(ctx context.Context, showtimeID, userID uuid.UUID, req *request.HoldSeatsRequest) (*response.HoldResponse, error)
	ReleaseSeats(ctx context.Context, showtimeID, userID uuid.UUID, req *request.ReleaseSeatsRequest) error
}

type seatService struct {
	repo   *repository.Repository
	locker seatlock.Locker
	layout entity.SeatLayout
	now    func() time.Time
	config utils.BookingConfig
	log    *zap.Logger
}

func NewSeatService(
	repo *repository.Repository,
	locker seatlock.Locker,
	layout entity.SeatLayout,
	now func() time.Time,
	config utils.BookingConfig,
	log *zap.Logger,
) SeatService {
	return &seatService{
		repo:   repo,
		locker: locker,
		layout: layout,
		now:    now,
		config: config,
		log:    log.With(zap.String("service", "seat")),
	}
}

// normalizeSeats canonicalises a seat request against the grid and the
// per-booking cap.
func normalizeSeats(layout entity.SeatLayout, max int, seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, validationError("seats", "Select at least one seat")
	}
	if max > 0 && len(seats) > max {
		return nil, validationError("seats", fmt.Sprintf("Maximum is %d seats per booking", max))
	}
	out, err := layout.Normalize(seats)
	if err != nil {
		return nil, validationError("seats", err.Error())
	}
	return out, nil
}

// upcomingShowtime loads a showtime that has not started yet.
func upcomingShowtime(ctx context.Context, repo repository.ShowtimeRepository, showtimeID uuid.UUID, now time.Time) (*entity.Showtime, error) {
	showtime, err := repo.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("find showtime %s: %w", showtimeID, err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}
	if !showtime.StartsAt.After(now) {
		return nil, fmt.Errorf("showtime %s has already started: %w", showtimeID, ErrInvalidState)
	}
	return showtime, nil
}

func intersect(seats, taken []string) []string {
	set := make(map[string]bool, len(taken))
	for _, s := range taken {
		set[s] = true
	}
	var out []string
	for _, s := range seats {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

func (s *seatService) GetSeatMap(ctx context.Context, showtimeID, viewer uuid.UUID) (*response.SeatMapResponse, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("find showtime %s: %w", showtimeID, err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}

	booked, err := s.repo.Booking.BookedSeats(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("get booked seats: %w", err)
	}

	holds, err := s.locker.Holders(ctx, showtimeID)
	if err != nil {
		// Holds are advisory; the map is still correct about bookings.
		s.log.Warn("Failed to read seat holds", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		holds = nil
	}

	bookedSet := make(map[string]bool, len(booked))
	for _, seat := range booked {
		bookedSet[seat] = true
	}

	resp := &response.SeatMapResponse{
		ShowtimeID:  showtimeID.String(),
		Rows:        s.layout.Rows,
		SeatsPerRow: s.layout.SeatsPerRow,
		Price:       showtime.Price,
		Booked:      append([]string{}, booked...),
		Held:        []string{},
	}
	for _, seat := range s.layout.Seats() {
		status := entity.SeatAvailable
		if bookedSet[seat.Label] {
			status = entity.SeatBooked
		} else if h, ok := holds[seat.Label]; ok {
			status = entity.SeatHeld
			if viewer != uuid.Nil && h.UserID == viewer {
				status = entity.SeatHeldByYou
			}
			resp.Held = append(resp.Held, seat.Label)
		}
		resp.Seats = append(resp.Seats, response.SeatResponse{
			Label:   seat.Label,
			Row:     seat.Row,
			Number:  seat.Number,
			Premium: seat.Premium,
			Status:  status,
		})
	}
	sort.Strings(resp.Booked)

	return resp, nil
}

func (s *seatService) HoldSeats(ctx context.Context, showtimeID, userID uuid.UUID, req *request.HoldSeatsRequest) (*response.HoldResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	seats, err := normalizeSeats(s.layout, s.config.MaxSeatsPerBooking, req.Seats)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := upcomingShowtime(ctx, s.repo.Showtime, showtimeID, now); err != nil {
		return nil, err
	}

	booked, err := s.repo.Booking.BookedSeats(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("get booked seats: %w", err)
	}
	if taken := intersect(seats, booked); len(taken) > 0 {
		metrics.SeatConflict(metrics.StageHold)
		return nil, &SeatConflictError{Seats: taken, Reason: ReasonBooked}
	}

	if err := s.locker.Hold(ctx, showtimeID, userID, seats, s.config.HoldTTL); err != nil {
		var held *seatlock.HeldError
		if errors.As(err, &held) {
			metrics.SeatConflict(metrics.StageHold)
			return nil, &SeatConflictError{Seats: held.Seats, Reason: ReasonHeld}
		}
		s.log.Error("Failed to hold seats", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		return nil, fmt.Errorf("hold seats: %w", err)
	}

	s.log.Info("Seats held",
		zap.String("showtime_id", showtimeID.String()),
		zap.String("user_id", userID.String()),
		zap.Strings("seats", seats),
	)

	return &response.HoldResponse{
		ShowtimeID: showtimeID.String(),
		Seats:      seats,
		ExpiresAt:  now.Add(s.config.HoldTTL),
	}, nil
}

func (s *seatService) ReleaseSeats(ctx context.Context, showtimeID, userID uuid.UUID, req *request.ReleaseSeatsRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	var seats []string
	if len(req.Seats) > 0 {
		normalized, err := s.layout.Normalize(req.Seats)
		if err != nil {
			return validationError("seats", err.Error())
		}
		seats = normalized
	}

	if err := s.locker.Release(ctx, showtimeID, userID, seats); err != nil {
		return fmt.Errorf("release seats: %w", err)
	}
	return nil
}
