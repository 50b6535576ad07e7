package adaptor

import (
	"net/http"

	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/usecase"
	"cookmyshow/pkg/utils"

	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	seats   usecase.SeatService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, seats usecase.SeatService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		seats:   seats,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// GetShowtimes handles GET /api/showtimes?movie_id&cinema_id&date
func (h *ShowtimeHandler) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ShowtimeQuery{
		MovieID:  query.Get("movie_id"),
		CinemaID: query.Get("cinema_id"),
		Date:     query.Get("date"),
	}

	showtimes, err := h.service.GetShowtimes(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get showtimes")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// GetShowtimeByID handles GET /api/showtimes/{id}
func (h *ShowtimeHandler) GetShowtimeByID(w http.ResponseWriter, r *http.Request) {
	showtimeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	showtime, err := h.service.GetShowtimeByID(r.Context(), showtimeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime retrieved successfully", showtime)
}

// CreateShowtime handles POST /api/admin/showtimes
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "Showtime created successfully", showtime)
}

// GenerateShowtimes handles POST /api/admin/showtimes/generate
func (h *ShowtimeHandler) GenerateShowtimes(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateShowtimesRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	showtimes, err := h.service.GenerateShowtimes(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "generate showtimes")
		return
	}

	utils.ResponseCreated(w, "Showtimes generated successfully", showtimes)
}

// DeleteShowtime handles DELETE /api/admin/showtimes/{id}
func (h *ShowtimeHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteShowtime(r.Context(), showtimeID); err != nil {
		handleServiceError(w, h.log, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime deleted successfully", nil)
}

// GetSeatMap handles GET /api/showtimes/{id}/seats. Authentication is optional
// and only changes how the caller's own holds are reported.
func (h *ShowtimeHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	viewer, _ := utils.GetUserIDFromContext(r.Context())
	w.Header().Set("Cache-Control", "no-store")

	seatMap, err := h.seats.GetSeatMap(r.Context(), showtimeID, viewer)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "Seats retrieved successfully", seatMap)
}

// HoldSeats handles POST /api/showtimes/{id}/holds
func (h *ShowtimeHandler) HoldSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	showtimeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.HoldSeatsRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	hold, err := h.seats.HoldSeats(r.Context(), showtimeID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "hold seats")
		return
	}

	utils.ResponseSuccess(w, "Seats held", hold)
}

// ReleaseSeats handles DELETE /api/showtimes/{id}/holds
func (h *ShowtimeHandler) ReleaseSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	showtimeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.ReleaseSeatsRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	if err := h.seats.ReleaseSeats(r.Context(), showtimeID, userID, &req); err != nil {
		handleServiceError(w, h.log, err, "release seats")
		return
	}

	utils.ResponseSuccess(w, "Seats released", nil)
}
