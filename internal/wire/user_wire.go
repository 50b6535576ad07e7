package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	r.With(g.auth).Get("/api/user/profile", userHandler.GetProfile)

	r.With(g.auth, g.admin).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetUsers)               // GET /api/admin/users?page=1&per_page=10
		r.Patch("/{id}/active", userHandler.SetActive) // PATCH /api/admin/users/{id}/active
	})
}
