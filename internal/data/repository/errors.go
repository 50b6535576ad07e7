package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrSeatUnavailable = errors.New("seat unavailable")
	// ErrStaleState means the row was not in the expected state when the
	// write ran, because another request changed it first.
	ErrStaleState    = errors.New("record changed concurrently")
	ErrShowtimeInUse = errors.New("showtime has live bookings")
)

// SeatConflictError lists seats that already belong to a live booking.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat(s) already booked: %s", strings.Join(e.Seats, ", "))
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
