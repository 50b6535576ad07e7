package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"
	"cookmyshow/internal/events"
	"cookmyshow/internal/metrics"
	"cookmyshow/internal/seatlock"
	"cookmyshow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor is the caller a booking action is performed for.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetAllBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	PayBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.PayBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)
	RestoreBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)

	// ExpirePending expires pending bookings older than the payment window
	// and returns how many it expired.
	ExpirePending(ctx context.Context) (int, error)
}

type bookingService struct {
	repo      *repository.Repository
	locker    seatlock.Locker
	publisher events.Publisher
	layout    entity.SeatLayout
	now       func() time.Time
	config    utils.BookingConfig
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	locker seatlock.Locker,
	publisher events.Publisher,
	layout entity.SeatLayout,
	now func() time.Time,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		layout:    layout,
		now:       now,
		config:    config,
		log:       log.With(zap.String("service", "booking")),
	}
}

const orderIDAttempts = 3

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}
	seats, err := normalizeSeats(s.layout, s.config.MaxSeatsPerBooking, req.Seats)
	if err != nil {
		return nil, err
	}

	now := s.now()
	showtimeID := uuid.MustParse(req.ShowtimeID)
	showtime, err := upcomingShowtime(ctx, s.repo.Showtime, showtimeID, now)
	if err != nil {
		return nil, err
	}

	if err := s.checkHolds(ctx, showtimeID, userID, seats); err != nil {
		metrics.SeatConflict(metrics.StageBook)
		return nil, err
	}

	var poster string
	if movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID); err != nil {
		s.log.Warn("Failed to load movie for booking", zap.Error(err), zap.String("movie_id", showtime.MovieID.String()))
	} else if movie != nil {
		poster = movie.Poster
	}

	booking := &entity.Booking{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		ShowtimeID:   showtime.ID,
		MovieID:      showtime.MovieID,
		CinemaID:     showtime.CinemaID,
		MovieTitle:   showtime.MovieTitle,
		MoviePoster:  poster,
		CinemaName:   showtime.CinemaName,
		ScreenType:   showtime.ScreenType,
		StartsAt:     showtime.StartsAt,
		Seats:        seats,
		TotalPrice:   entity.TotalFor(showtime.Price, len(seats)),
		Status:       entity.BookingStatusPending,
	}

	for attempt := 1; ; attempt++ {
		booking.OrderID = utils.GenerateOrderID(now)
		err = s.repo.Booking.Create(ctx, booking)
		if !errors.Is(err, repository.ErrDuplicate) || attempt == orderIDAttempts {
			break
		}
	}
	if err != nil {
		var conflict *repository.SeatConflictError
		switch {
		case errors.As(err, &conflict):
			metrics.SeatConflict(metrics.StageBook)
			s.log.Info("Booking lost seat race",
				zap.String("showtime_id", showtimeID.String()),
				zap.Strings("seats", conflict.Seats),
			)
			return nil, &SeatConflictError{Seats: conflict.Seats, Reason: ReasonBooked}
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.locker.Release(ctx, showtimeID, userID, seats); err != nil {
		s.log.Warn("Failed to release holds after booking", zap.Error(err))
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID.String()),
		zap.Strings("seats", seats),
		zap.Float64("total_price", booking.TotalPrice),
	)
	s.publish(ctx, events.BookingCreated, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// checkHolds rejects seats another user is holding.
func (s *bookingService) checkHolds(ctx context.Context, showtimeID, userID uuid.UUID, seats []string) error {
	holds, err := s.locker.Holders(ctx, showtimeID)
	if err != nil {
		s.log.Warn("Failed to read seat holds, relying on store", zap.Error(err))
		return nil
	}

	var held []string
	for _, seat := range seats {
		if h, ok := holds[seat]; ok && h.UserID != userID {
			held = append(held, seat)
		}
	}
	if len(held) > 0 {
		return &SeatConflictError{Seats: held, Reason: ReasonHeld}
	}
	return nil
}

func (s *bookingService) publish(ctx context.Context, t events.Type, b *entity.Booking) {
	metrics.BookingEvent(string(t))
	if err := s.publisher.Publish(ctx, events.NewBookingEvent(t, b, s.now())); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", string(t)),
			zap.String("booking_id", b.ID.String()),
		)
	}
}

// load fetches a booking the actor may act on. Other users' bookings are
// reported as forbidden.
func (s *bookingService) load(ctx context.Context, actor Actor, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if !actor.IsAdmin && booking.UserID != actor.UserID {
		return nil, fmt.Errorf("booking %s belongs to another user: %w", bookingID, ErrForbidden)
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.BookingFilter
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.ShowtimeID != "" {
		id := uuid.MustParse(req.ShowtimeID)
		filter.ShowtimeID = &id
	}
	if req.UserID != "" {
		id := uuid.MustParse(req.UserID)
		filter.UserID = &id
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

// paymentOpen reports whether a pending booking can still be paid.
func (s *bookingService) paymentOpen(b *entity.Booking, now time.Time) bool {
	return s.config.PaymentWindow <= 0 || now.Sub(b.CreatedAt) < s.config.PaymentWindow
}

func (s *bookingService) PayBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.PayBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking is %s, not pending: %w", booking.Status, ErrInvalidState)
	}
	if !s.paymentOpen(booking, now) {
		return nil, fmt.Errorf("payment window has passed: %w", ErrInvalidState)
	}
	if math.Abs(req.Amount-booking.TotalPrice) > 0.005 {
		return nil, validationError("amount", fmt.Sprintf("Must equal the booking total %.2f", booking.TotalPrice))
	}

	paid, err := s.repo.Booking.MarkPaid(ctx, bookingID, entity.PaymentMethod(req.Method), utils.GeneratePaymentRef(), now)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("booking changed while paying: %w", ErrInvalidState)
		}
		return nil, fmt.Errorf("pay booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", bookingID.String()),
		zap.String("method", req.Method),
		zap.Float64("amount", paid.TotalPrice),
	)
	s.publish(ctx, events.BookingConfirmed, paid)

	resp := response.BookingToResponse(paid)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !booking.Status.IsLive() {
		return nil, fmt.Errorf("booking is already %s: %w", booking.Status, ErrInvalidState)
	}
	if !actor.IsAdmin && !booking.StartsAt.After(now) {
		return nil, fmt.Errorf("showtime has already started: %w", ErrInvalidState)
	}

	cancelled, err := s.repo.Booking.Transition(ctx, bookingID, booking.Status, entity.BookingStatusCancelled, now)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("booking changed while cancelling: %w", ErrInvalidState)
		}
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("by", actor.UserID.String()),
	)
	s.publish(ctx, events.BookingCancelled, cancelled)

	resp := response.BookingToResponse(cancelled)
	return &resp, nil
}

// RestoreBooking reinstates a cancelled booking if its seats are still free:
// as confirmed when it had been paid, otherwise as pending.
func (s *bookingService) RestoreBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if booking.Status != entity.BookingStatusCancelled {
		return nil, fmt.Errorf("only cancelled bookings can be restored, booking is %s: %w", booking.Status, ErrInvalidState)
	}
	if !booking.StartsAt.After(now) {
		return nil, fmt.Errorf("showtime has already started: %w", ErrInvalidState)
	}

	to := entity.BookingStatusPending
	if booking.PaidAt != nil {
		to = entity.BookingStatusConfirmed
	} else if !s.paymentOpen(booking, now) {
		return nil, fmt.Errorf("payment window has passed: %w", ErrInvalidState)
	}

	if err := s.checkHolds(ctx, booking.ShowtimeID, booking.UserID, booking.Seats); err != nil {
		metrics.SeatConflict(metrics.StageRestore)
		return nil, err
	}

	restored, err := s.repo.Booking.Transition(ctx, bookingID, entity.BookingStatusCancelled, to, now)
	if err != nil {
		var conflict *repository.SeatConflictError
		switch {
		case errors.As(err, &conflict):
			metrics.SeatConflict(metrics.StageRestore)
			return nil, &SeatConflictError{Seats: conflict.Seats, Reason: ReasonBooked}
		case errors.Is(err, repository.ErrStaleState):
			return nil, fmt.Errorf("booking changed while restoring: %w", ErrInvalidState)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("showtime no longer exists: %w", ErrInvalidState)
		}
		return nil, fmt.Errorf("restore booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking restored",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(to)),
	)
	s.publish(ctx, events.BookingRestored, restored)

	resp := response.BookingToResponse(restored)
	return &resp, nil
}

func (s *bookingService) ExpirePending(ctx context.Context) (int, error) {
	if s.config.PaymentWindow <= 0 {
		return 0, nil
	}

	now := s.now()
	expired, err := s.repo.Booking.ExpirePending(ctx, now.Add(-s.config.PaymentWindow), now)
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}

	for _, b := range expired {
		s.publish(ctx, events.BookingExpired, b)
	}
	if len(expired) > 0 {
		s.log.Info("Pending bookings expired", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}
