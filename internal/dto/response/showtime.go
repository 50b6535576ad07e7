package response

import (
	"time"

	"cookmyshow/internal/data/entity"
)

type ShowtimeResponse struct {
	ID         string            `json:"id"`
	MovieID    string            `json:"movie_id"`
	MovieTitle string            `json:"movie_title"`
	CinemaID   string            `json:"cinema_id"`
	CinemaName string            `json:"cinema_name"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	StartsAt   time.Time         `json:"starts_at"`
	ScreenType entity.ScreenType `json:"screen_type"`
	Price      float64           `json:"price"`
}

func ShowtimeToResponse(s *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:         s.ID.String(),
		MovieID:    s.MovieID.String(),
		MovieTitle: s.MovieTitle,
		CinemaID:   s.CinemaID.String(),
		CinemaName: s.CinemaName,
		Date:       s.Date(),
		Time:       s.Time(),
		StartsAt:   s.StartsAt,
		ScreenType: s.ScreenType,
		Price:      s.Price,
	}
}

func ShowtimesToResponse(showtimes []*entity.Showtime) []ShowtimeResponse {
	out := make([]ShowtimeResponse, 0, len(showtimes))
	for _, s := range showtimes {
		out = append(out, ShowtimeToResponse(s))
	}
	return out
}

type SeatResponse struct {
	Label   string            `json:"label"`
	Row     string            `json:"row"`
	Number  int               `json:"number"`
	Premium bool              `json:"premium"`
	Status  entity.SeatStatus `json:"status"`
}

type SeatMapResponse struct {
	ShowtimeID  string         `json:"showtime_id"`
	Rows        int            `json:"rows"`
	SeatsPerRow int            `json:"seats_per_row"`
	Price       float64        `json:"price"`
	Booked      []string       `json:"booked"`
	Held        []string       `json:"held"`
	Seats       []SeatResponse `json:"seats"`
}

type HoldResponse struct {
	ShowtimeID string    `json:"showtime_id"`
	Seats      []string  `json:"seats"`
	ExpiresAt  time.Time `json:"expires_at"`
}
