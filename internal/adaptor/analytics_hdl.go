package adaptor

import (
	"net/http"

	"cookmyshow/internal/usecase"
	"cookmyshow/pkg/utils"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service usecase.AnalyticsService
	log     *zap.Logger
}

func NewAnalyticsHandler(service usecase.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log.With(zap.String("handler", "analytics")),
	}
}

func days(r *http.Request) int {
	return utils.ParseInt(r.URL.Query().Get("days"), 7)
}

// Overview handles GET /api/admin/analytics
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get analytics")
		return
	}
	utils.ResponseSuccess(w, "success", overview)
}

// Revenue handles GET /api/admin/analytics/revenue?days
func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.Revenue(r.Context(), days(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get revenue")
		return
	}
	utils.ResponseSuccess(w, "success", series)
}

// Users handles GET /api/admin/analytics/users?days
func (h *AnalyticsHandler) Users(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.Users(r.Context(), days(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get user activity")
		return
	}
	utils.ResponseSuccess(w, "success", series)
}

// Movies handles GET /api/admin/analytics/movies
func (h *AnalyticsHandler) Movies(w http.ResponseWriter, r *http.Request) {
	perf, err := h.service.MoviePerformance(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get movie performance")
		return
	}
	utils.ResponseSuccess(w, "success", perf)
}
