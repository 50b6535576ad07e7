package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, g guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.With(g.limit).Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/pay", bookingHandler.PayBooking)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Post("/api/bookings/{id}/restore", bookingHandler.RestoreBooking)

		r.Get("/api/user/bookings", bookingHandler.GetMyBookings)
	})

	r.With(g.auth, g.admin).Get("/api/admin/bookings", bookingHandler.GetAllBookings)
}
