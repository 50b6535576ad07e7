package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingRepository owns the seat claims of live bookings. Every method that
// moves a booking in or out of a live status claims or releases its seats in
// the same atomic step, so no seat of a showtime can belong to two live
// bookings.
type BookingRepository interface {
	// Create stores a pending booking and claims all of its seats, or fails
	// with *SeatConflictError listing the seats already taken.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, filter BookingFilter) (int64, error)
	FindCreatedSince(ctx context.Context, since time.Time) ([]*entity.Booking, error)
	BookedSeats(ctx context.Context, showtimeID uuid.UUID) ([]string, error)

	// Transition moves a booking from one status to another. It fails with
	// ErrStaleState when the booking is no longer in status from.
	Transition(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, now time.Time) (*entity.Booking, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod, ref string, paidAt time.Time) (*entity.Booking, error)
	ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, user_id, showtime_id, movie_id, cinema_id, movie_title, movie_poster,
	cinema_name, screen_type, starts_at, seats, total_price, status, payment_method, payment_ref,
	paid_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderID,
		&b.UserID,
		&b.ShowtimeID,
		&b.MovieID,
		&b.CinemaID,
		&b.MovieTitle,
		&b.MoviePoster,
		&b.CinemaName,
		&b.ScreenType,
		&b.StartsAt,
		&b.Seats,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentMethod,
		&b.PaymentRef,
		&b.PaidAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// lockShowtime takes a share lock so the showtime cannot be deleted while
// seats are being claimed on it.
func lockShowtime(ctx context.Context, tx pgx.Tx, showtimeID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM showtimes WHERE id = $1 FOR SHARE`, showtimeID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}
	return err
}

// claimSeats inserts one booking_seats row per seat. The (showtime_id, seat)
// primary key makes a concurrent claim of the same seat wait for the other
// transaction and then skip the row, so a short RETURNING set means conflict.
func claimSeats(ctx context.Context, tx pgx.Tx, showtimeID, bookingID uuid.UUID, seats []string) error {
	rows, err := tx.Query(ctx, `
		INSERT INTO booking_seats (showtime_id, seat, booking_id)
		SELECT $1, seat, $3 FROM unnest($2::text[]) AS seat
		ON CONFLICT (showtime_id, seat) DO NOTHING
		RETURNING seat
	`, showtimeID, seats, bookingID)
	if err != nil {
		return fmt.Errorf("claim seats: %w", err)
	}

	claimed := make(map[string]bool, len(seats))
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			rows.Close()
			return fmt.Errorf("scan claimed seat: %w", err)
		}
		claimed[seat] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("claim seats: %w", err)
	}

	if len(claimed) == len(seats) {
		return nil
	}

	var taken []string
	for _, seat := range seats {
		if !claimed[seat] {
			taken = append(taken, seat)
		}
	}
	return &SeatConflictError{Seats: taken}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockShowtime(ctx, tx, booking.ShowtimeID); err != nil {
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	query := `
		INSERT INTO bookings (id, order_id, user_id, showtime_id, movie_id, cinema_id, movie_title,
		                      movie_poster, cinema_name, screen_type, starts_at, seats, total_price,
		                      status, payment_method, payment_ref, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.ShowtimeID,
		booking.MovieID,
		booking.CinemaID,
		booking.MovieTitle,
		booking.MoviePoster,
		booking.CinemaName,
		booking.ScreenType,
		booking.StartsAt,
		textArray(booking.Seats),
		booking.TotalPrice,
		booking.Status,
		booking.PaymentMethod,
		booking.PaymentRef,
		booking.PaidAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create booking %s: %w", booking.OrderID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	if err := claimSeats(ctx, tx, booking.ShowtimeID, booking.ID, booking.Seats); err != nil {
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return b, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user %s: %w", userID, err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count user bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings by user %s: %w", userID, err)
	}
	return total, nil
}

func bookingWhere(filter BookingFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.ShowtimeID != nil {
		w.add("showtime_id = $%d", *filter.ShowtimeID)
	}
	if filter.UserID != nil {
		w.add("user_id = $%d", *filter.UserID)
	}
	return w
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	w := bookingWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, w, w.next(), w.next()+1)

	rows, err := r.db.Query(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context, filter BookingFilter) (int64, error) {
	w := bookingWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+w.String(), w.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return total, nil
}

func (r *bookingRepository) FindCreatedSince(ctx context.Context, since time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE created_at >= $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		r.log.Error("Failed to find bookings since", zap.Error(err), zap.Time("since", since))
		return nil, fmt.Errorf("find bookings since %s: %w", since.Format(time.RFC3339), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) BookedSeats(ctx context.Context, showtimeID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT seat FROM booking_seats WHERE showtime_id = $1 ORDER BY seat`, showtimeID)
	if err != nil {
		r.log.Error("Failed to find booked seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find booked seats %s: %w", showtimeID, err)
	}
	defer rows.Close()

	seats := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan booked seat: %w", err)
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked seats: %w", err)
	}

	return seats, nil
}

// missingOrStale tells apart a booking that does not exist from one whose
// status moved on.
func missingOrStale(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStaleState
}

func (r *bookingRepository) Transition(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, now time.Time) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transition: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	b, err := scanBooking(tx.QueryRow(ctx, query, id, from, to, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %s %s->%s: %w", id, from, to, missingOrStale(ctx, tx, id))
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("to", string(to)),
		)
		return nil, fmt.Errorf("update booking %s status: %w", id, err)
	}

	switch {
	case from.IsLive() && !to.IsLive():
		if _, err := tx.Exec(ctx, `DELETE FROM booking_seats WHERE booking_id = $1`, id); err != nil {
			return nil, fmt.Errorf("release seats of booking %s: %w", id, err)
		}
	case !from.IsLive() && to.IsLive():
		if err := lockShowtime(ctx, tx, b.ShowtimeID); err != nil {
			return nil, fmt.Errorf("restore booking %s: %w", id, err)
		}
		if err := claimSeats(ctx, tx, b.ShowtimeID, b.ID, b.Seats); err != nil {
			return nil, fmt.Errorf("restore booking %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking %s transition: %w", id, err)
	}

	r.log.Info("Booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return b, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod, ref string, paidAt time.Time) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin mark paid: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE bookings
		SET status = $2, payment_method = $3, payment_ref = $4, paid_at = $5, updated_at = $5
		WHERE id = $1 AND status = $6
		RETURNING ` + bookingColumns

	b, err := scanBooking(tx.QueryRow(ctx, query,
		id, entity.BookingStatusConfirmed, method, ref, paidAt, entity.BookingStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pay booking %s: %w", id, missingOrStale(ctx, tx, id))
	}
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("pay booking %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit pay booking %s: %w", id, err)
	}

	return b, nil
}

func (r *bookingRepository) ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin expire bookings: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `UPDATE bookings SET status = $1, updated_at = $2
		WHERE status = $3 AND created_at < $4
		RETURNING `+bookingColumns,
		entity.BookingStatusExpired, now, entity.BookingStatusPending, createdBefore)
	if err != nil {
		r.log.Error("Failed to expire bookings", zap.Error(err))
		return nil, fmt.Errorf("expire bookings: %w", err)
	}

	expired, err := collectBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(expired))
	for i, b := range expired {
		ids[i] = b.ID
	}
	if _, err := tx.Exec(ctx, `DELETE FROM booking_seats WHERE booking_id = ANY($1)`, ids); err != nil {
		return nil, fmt.Errorf("release expired seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expire bookings: %w", err)
	}

	return expired, nil
}
