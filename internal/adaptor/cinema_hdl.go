package adaptor

import (
	"net/http"

	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/usecase"
	"cookmyshow/pkg/utils"

	"go.uber.org/zap"
)

type CinemaHandler struct {
	service usecase.CinemaService
	log     *zap.Logger
}

func NewCinemaHandler(service usecase.CinemaService, log *zap.Logger) *CinemaHandler {
	return &CinemaHandler{
		service: service,
		log:     log.With(zap.String("handler", "cinema")),
	}
}

// GetCinemas handles GET /api/cinemas?page&per_page&location
func (h *CinemaHandler) GetCinemas(w http.ResponseWriter, r *http.Request) {
	req := pagination(r)

	cinemas, err := h.service.GetCinemas(r.Context(), &req, r.URL.Query().Get("location"))
	if err != nil {
		handleServiceError(w, h.log, err, "get cinemas")
		return
	}

	respondPage(w, "success", cinemas)
}

// GetCinemaByID handles GET /api/cinemas/{id}
func (h *CinemaHandler) GetCinemaByID(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	cinema, err := h.service.GetCinemaByID(r.Context(), cinemaID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cinema")
		return
	}

	utils.ResponseSuccess(w, "Cinema retrieved successfully", cinema)
}

// GetCinemaShowtimes handles GET /api/cinemas/{id}/showtimes?date
func (h *CinemaHandler) GetCinemaShowtimes(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	showtimes, err := h.service.GetCinemaShowtimes(r.Context(), cinemaID, r.URL.Query().Get("date"))
	if err != nil {
		handleServiceError(w, h.log, err, "get cinema showtimes")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// CreateCinema handles POST /api/admin/cinemas
func (h *CinemaHandler) CreateCinema(w http.ResponseWriter, r *http.Request) {
	var req request.CinemaRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	cinema, err := h.service.CreateCinema(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create cinema")
		return
	}

	utils.ResponseCreated(w, "Cinema created successfully", cinema)
}

// UpdateCinema handles PUT /api/admin/cinemas/{id}
func (h *CinemaHandler) UpdateCinema(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.CinemaUpdateRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	cinema, err := h.service.UpdateCinema(r.Context(), cinemaID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update cinema")
		return
	}

	utils.ResponseSuccess(w, "Cinema updated successfully", cinema)
}

// DeleteCinema handles DELETE /api/admin/cinemas/{id}
func (h *CinemaHandler) DeleteCinema(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCinema(r.Context(), cinemaID); err != nil {
		handleServiceError(w, h.log, err, "delete cinema")
		return
	}

	utils.ResponseSuccess(w, "Cinema deleted successfully", nil)
}
