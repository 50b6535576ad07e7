// Package seatlock places short-lived holds on seats while a customer is
// choosing them, so two customers are not both sent to checkout for the
// same seat. Holds are advisory; the booking store remains the authority.
package seatlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrSeatHeld = errors.New("seat held by another customer")

// HeldError lists the seats held by someone else.
type HeldError struct {
	Seats []string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("seat(s) held by another customer: %s", strings.Join(e.Seats, ", "))
}

func (e *HeldError) Is(target error) bool {
	return target == ErrSeatHeld
}

type Hold struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

type Locker interface {
	// Hold places or refreshes holds on all seats for userID, or none of
	// them when any seat is held by another user.
	Hold(ctx context.Context, showtimeID, userID uuid.UUID, seats []string, ttl time.Duration) error
	// Release drops the user's holds on the given seats, or on every seat
	// of the showtime when seats is empty. Other users' holds are untouched.
	Release(ctx context.Context, showtimeID, userID uuid.UUID, seats []string) error
	// Holders returns the live holds of a showtime by seat label.
	Holders(ctx context.Context, showtimeID uuid.UUID) (map[string]Hold, error)
}
