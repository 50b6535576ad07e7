package response

import (
	"time"

	"cookmyshow/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"order_id"`
	UserID        string               `json:"user_id"`
	ShowtimeID    string               `json:"showtime_id"`
	MovieID       string               `json:"movie_id"`
	MovieTitle    string               `json:"movie_title"`
	MoviePoster   string               `json:"movie_poster"`
	CinemaID      string               `json:"cinema_id"`
	CinemaName    string               `json:"cinema_name"`
	ScreenType    entity.ScreenType    `json:"screen_type"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	StartsAt      time.Time            `json:"starts_at"`
	Seats         []string             `json:"seats"`
	TotalPrice    float64              `json:"total_price"`
	Status        entity.BookingStatus `json:"status"`
	PaymentMethod entity.PaymentMethod `json:"payment_method,omitempty"`
	PaymentRef    string               `json:"payment_ref,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		OrderID:       b.OrderID,
		UserID:        b.UserID.String(),
		ShowtimeID:    b.ShowtimeID.String(),
		MovieID:       b.MovieID.String(),
		MovieTitle:    b.MovieTitle,
		MoviePoster:   b.MoviePoster,
		CinemaID:      b.CinemaID.String(),
		CinemaName:    b.CinemaName,
		ScreenType:    b.ScreenType,
		Date:          b.StartsAt.Format(entity.DateLayout),
		Time:          b.StartsAt.Format(entity.TimeLayout),
		StartsAt:      b.StartsAt,
		Seats:         nonNil(b.Seats),
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		PaymentRef:    b.PaymentRef,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
