package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCinema(r chi.Router, cinemaHandler *adaptor.CinemaHandler, g guards) {
	r.Get("/api/cinemas", cinemaHandler.GetCinemas)
	r.Get("/api/cinemas/{id}", cinemaHandler.GetCinemaByID)
	r.Get("/api/cinemas/{id}/showtimes", cinemaHandler.GetCinemaShowtimes)

	r.Route("/api/admin/cinemas", func(r chi.Router) {
		r.Use(g.auth, g.admin)

		r.Post("/", cinemaHandler.CreateCinema)
		r.Put("/{id}", cinemaHandler.UpdateCinema)
		r.Delete("/{id}", cinemaHandler.DeleteCinema)
	})
}
