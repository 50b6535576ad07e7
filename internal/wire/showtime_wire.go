package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler, g guards) {
	r.Route("/api/showtimes", func(r chi.Router) {
		r.Get("/", showtimeHandler.GetShowtimes)
		r.Get("/{id}", showtimeHandler.GetShowtimeByID)

		// The seat map works anonymously; a token only marks the caller's holds.
		r.With(g.optional).Get("/{id}/seats", showtimeHandler.GetSeatMap)

		r.With(g.auth).Post("/{id}/holds", showtimeHandler.HoldSeats)
		r.With(g.auth).Delete("/{id}/holds", showtimeHandler.ReleaseSeats)
	})

	r.Route("/api/admin/showtimes", func(r chi.Router) {
		r.Use(g.auth, g.admin)

		r.Post("/", showtimeHandler.CreateShowtime)
		r.Post("/generate", showtimeHandler.GenerateShowtimes)
		r.Delete("/{id}", showtimeHandler.DeleteShowtime)
	})
}
