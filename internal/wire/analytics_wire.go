package wire

import (
	"cookmyshow/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAnalytics(r chi.Router, analyticsHandler *adaptor.AnalyticsHandler, g guards) {
	r.Route("/api/admin/analytics", func(r chi.Router) {
		r.Use(g.auth, g.admin)

		r.Get("/", analyticsHandler.Overview)
		r.Get("/revenue", analyticsHandler.Revenue)
		r.Get("/users", analyticsHandler.Users)
		r.Get("/movies", analyticsHandler.Movies)
	})
}
