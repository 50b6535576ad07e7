package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// IsLive reports whether a booking in this status owns its seats.
func (s BookingStatus) IsLive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentWallet     PaymentMethod = "wallet"
)

type Booking struct {
	BaseNoDelete
	OrderID    string    `db:"order_id" json:"order_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	ShowtimeID uuid.UUID `db:"showtime_id" json:"showtime_id"`
	MovieID    uuid.UUID `db:"movie_id" json:"movie_id"`
	CinemaID   uuid.UUID `db:"cinema_id" json:"cinema_id"`

	MovieTitle  string     `db:"movie_title" json:"movie_title"`
	MoviePoster string     `db:"movie_poster" json:"movie_poster"`
	CinemaName  string     `db:"cinema_name" json:"cinema_name"`
	ScreenType  ScreenType `db:"screen_type" json:"screen_type"`
	StartsAt    time.Time  `db:"starts_at" json:"starts_at"`

	Seats         []string      `db:"seats" json:"seats"`
	TotalPrice    float64       `db:"total_price" json:"total_price"`
	Status        BookingStatus `db:"status" json:"status"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method,omitempty"`
	PaymentRef    string        `db:"payment_ref" json:"payment_ref,omitempty"`
	PaidAt        *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
}

// TotalFor prices seats at a flat per-seat price, rounded to cents.
func TotalFor(price float64, seats int) float64 {
	return math.Round(price*float64(seats)*100) / 100
}
