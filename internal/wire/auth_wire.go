package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	r.Route("/api/auth", func(r chi.Router) {
		// Credential endpoints are rate limited per client IP.
		r.With(g.limit).Post("/register", authHandler.Register)
		r.With(g.limit).Post("/login", authHandler.Login)

		r.With(g.auth).Get("/verify", authHandler.Verify)
		r.With(g.auth).Post("/logout", authHandler.Logout)
	})
}
