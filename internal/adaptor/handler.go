package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/dto/request"
	"cookmyshow/internal/dto/response"
	"cookmyshow/internal/usecase"
	"cookmyshow/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Movie     *MovieHandler
	Cinema    *CinemaHandler
	Showtime  *ShowtimeHandler
	Booking   *BookingHandler
	Analytics *AnalyticsHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Movie:     NewMovieHandler(service.Movie, log),
		Cinema:    NewCinemaHandler(service.Cinema, log),
		Showtime:  NewShowtimeHandler(service.Showtime, service.Seat, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Analytics: NewAnalyticsHandler(service.Analytics, log),
	}
}

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body is accepted
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	utils.ResponseBadRequest(w, "Invalid request body", nil)
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, map[string]string{name: "Must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func pagination(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: min(utils.ParseInt(query.Get("per_page"), 10), 100),
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func currentActor(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, IsAdmin: role == string(entity.RoleAdmin)}, true
}

// respondPage writes a list with its pagination block next to data.
func respondPage[T any](w http.ResponseWriter, message string, page *response.PaginatedResponse[T]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Status     bool                    `json:"status"`
		Message    string                  `json:"message"`
		Data       []T                     `json:"data"`
		Pagination response.PaginationMeta `json:"pagination"`
	}{true, message, page.Data, page.Pagination})
}

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		invalid  *usecase.ValidationError
		conflict *usecase.SeatConflictError
	)

	switch {
	case errors.As(err, &invalid):
		log.Warn(operation+" validation failed", zap.Any("fields", invalid.Fields))
		utils.ResponseBadRequest(w, "Validation failed", invalid.Fields)

	case errors.As(err, &conflict):
		log.Info(operation+" failed - seat conflict", zap.Strings("seats", conflict.Seats), zap.String("reason", conflict.Reason))
		utils.ResponseConflict(w, conflict.Error(), map[string]any{
			"seats":  conflict.Seats,
			"reason": conflict.Reason,
		})

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrInvalidState):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
