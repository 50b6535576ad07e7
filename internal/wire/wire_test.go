package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cookmyshow/internal/data/filestore"
	"cookmyshow/internal/dto/response"
	"cookmyshow/internal/usecase"
	"cookmyshow/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status     bool                    `json:"status"`
	Message    string                  `json:"message"`
	Data       json.RawMessage         `json:"data"`
	Errors     json.RawMessage         `json:"errors"`
	Pagination response.PaginationMeta `json:"pagination"`
}

type api struct {
	t   *testing.T
	srv *httptest.Server
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (a *api) data(raw json.RawMessage, dst any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(raw, dst))
}

func (a *api) token(path string, body any, want int) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, path, "", body)
	require.Equal(a.t, want, code, env.Message)
	var auth response.AuthResponse
	a.data(env.Data, &auth)
	require.NotEmpty(a.t, auth.Token)
	return auth.Token
}

func newAPI(t *testing.T) (*api, *App) {
	t.Helper()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "cookmyshow.json"), zap.NewNop())
	require.NoError(t, err)

	config := &utils.Config{
		Storage: utils.StorageConfig{Driver: utils.StorageDriverFile},
		JWT:     utils.JWTConfig{Secret: "wire-secret", ExpiryHours: 1},
		Booking: utils.BookingConfig{
			SeatRows:           10,
			SeatsPerRow:        16,
			PremiumRows:        3,
			MaxSeatsPerBooking: 10,
			HoldTTL:            5 * time.Minute,
			PaymentWindow:      15 * time.Minute,
		},
		RateLimit: utils.RateLimitConfig{Requests: 1000, Window: time.Minute},
		CORS:      utils.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	app := Wiring(store.Repository(), usecase.Deps{}, config, zap.NewNop())
	require.NoError(t, app.Service.Auth.SeedAdmin(context.Background(), "admin@example.com", "admin-pass"))

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return &api{t: t, srv: srv}, app
}

func TestRouter_Meta(t *testing.T) {
	a, _ := newAPI(t)

	resp, err := a.srv.Client().Get(a.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = a.srv.Client().Get(a.srv.URL + "/api/status")
	require.NoError(t, err)
	var status map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "file", status["storage"])

	code, env := a.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Status)
	assert.Equal(t, "Route not found", env.Message)

	code, _ = a.do(http.MethodPatch, "/api/movies", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestRouter_AdminGuards(t *testing.T) {
	a, _ := newAPI(t)

	movie := map[string]any{"title": "Dune", "description": "Sand"}

	code, _ := a.do(http.MethodPost, "/api/admin/movies", "", movie)
	assert.Equal(t, http.StatusUnauthorized, code)

	customer := a.token("/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	}, http.StatusCreated)

	code, _ = a.do(http.MethodPost, "/api/admin/movies", customer, movie)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, "/api/admin/analytics", customer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodPost, "/api/admin/movies", customer+"x", movie)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Status)
}

func TestRouter_BookingFlow(t *testing.T) {
	a, _ := newAPI(t)

	admin := a.token("/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "admin-pass",
	}, http.StatusOK)

	var movie response.MovieResponse
	code, env := a.do(http.MethodPost, "/api/admin/movies", admin, map[string]any{
		"title": "Dune", "description": "Sand", "rating": 8.5, "genres": []string{"Sci-Fi"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	a.data(env.Data, &movie)

	var cinema response.CinemaResponse
	code, env = a.do(http.MethodPost, "/api/admin/cinemas", admin, map[string]any{
		"name": "Grand", "location": "Downtown", "screens": 4,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	a.data(env.Data, &cinema)

	var showtime response.ShowtimeResponse
	code, env = a.do(http.MethodPost, "/api/admin/showtimes", admin, map[string]any{
		"movie_id":    movie.ID,
		"cinema_id":   cinema.ID,
		"date":        time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"time":        "19:30",
		"screen_type": "IMAX",
		"price":       12.5,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	a.data(env.Data, &showtime)
	assert.Equal(t, "Dune", showtime.MovieTitle)

	ana := a.token("/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	}, http.StatusCreated)
	ben := a.token("/api/auth/register", map[string]string{
		"name": "Ben", "email": "ben@example.com", "password": "secret2",
	}, http.StatusCreated)

	seatsPath := "/api/showtimes/" + showtime.ID + "/seats"
	var seatMap response.SeatMapResponse
	code, env = a.do(http.MethodGet, seatsPath, "", nil)
	require.Equal(t, http.StatusOK, code)
	a.data(env.Data, &seatMap)
	assert.Len(t, seatMap.Seats, 160)
	assert.Empty(t, seatMap.Booked)

	// Ana holds two seats; Ben cannot book one of them.
	code, env = a.do(http.MethodPost, "/api/showtimes/"+showtime.ID+"/holds", ana, map[string]any{
		"seats": []string{"a1", "A2"},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = a.do(http.MethodPost, "/api/bookings", ben, map[string]any{
		"showtime_id": showtime.ID, "seats": []string{"A1"},
	})
	assert.Equal(t, http.StatusConflict, code)
	var conflict struct {
		Seats  []string `json:"seats"`
		Reason string   `json:"reason"`
	}
	a.data(env.Errors, &conflict)
	assert.Equal(t, []string{"A1"}, conflict.Seats)
	assert.Equal(t, "held", conflict.Reason)

	var booking response.BookingResponse
	code, env = a.do(http.MethodPost, "/api/bookings", ana, map[string]any{
		"showtime_id": showtime.ID, "seats": []string{"A2", "A1"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	a.data(env.Data, &booking)
	assert.Equal(t, []string{"A1", "A2"}, booking.Seats)
	assert.InDelta(t, 25.0, booking.TotalPrice, 0.001)
	assert.Equal(t, "pending", string(booking.Status))

	code, env = a.do(http.MethodPost, "/api/bookings", ben, map[string]any{
		"showtime_id": showtime.ID, "seats": []string{"A2", "A3"},
	})
	assert.Equal(t, http.StatusConflict, code)
	a.data(env.Errors, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)
	assert.Equal(t, "booked", conflict.Reason)

	code, env = a.do(http.MethodPost, "/api/bookings", ben, map[string]any{
		"showtime_id": showtime.ID, "seats": []string{"Z9"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", env.Message)

	code, env = a.do(http.MethodGet, seatsPath, ben, nil)
	require.Equal(t, http.StatusOK, code)
	a.data(env.Data, &seatMap)
	assert.Equal(t, []string{"A1", "A2"}, seatMap.Booked)

	bookingPath := "/api/bookings/" + booking.ID
	code, _ = a.do(http.MethodGet, bookingPath, ben, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodGet, bookingPath, admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, bookingPath+"/pay", ana, map[string]any{
		"payment_method": "upi", "amount": 25.0,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	a.data(env.Data, &booking)
	assert.Equal(t, "confirmed", string(booking.Status))
	assert.NotEmpty(t, booking.PaymentRef)

	code, env = a.do(http.MethodPost, bookingPath+"/pay", ana, map[string]any{
		"payment_method": "upi", "amount": 25.0,
	})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, env = a.do(http.MethodPost, bookingPath+"/cancel", ana, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	a.data(env.Data, &booking)
	assert.Equal(t, "cancelled", string(booking.Status))

	// Cancelled seats are free again.
	code, env = a.do(http.MethodPost, "/api/bookings", ben, map[string]any{
		"showtime_id": showtime.ID, "seats": []string{"A2"},
	})
	assert.Equal(t, http.StatusCreated, code, env.Message)

	code, env = a.do(http.MethodGet, "/api/user/bookings", ana, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), env.Pagination.Total)

	code, env = a.do(http.MethodGet, "/api/admin/bookings?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), env.Pagination.Total)

	code, env = a.do(http.MethodGet, "/api/admin/analytics", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var overview response.AnalyticsOverview
	a.data(env.Data, &overview)
	assert.Equal(t, int64(2), overview.TotalBookings)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	a, _ := newAPI(t)

	token := a.token("/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	}, http.StatusCreated)

	code, _ := a.do(http.MethodGet, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
