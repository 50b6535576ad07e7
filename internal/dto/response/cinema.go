package response

import (
	"time"

	"cookmyshow/internal/data/entity"
)

type CinemaResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Address    string    `json:"address"`
	Screens    int       `json:"screens"`
	TotalSeats int       `json:"total_seats"`
	Amenities  []string  `json:"amenities"`
	Contact    string    `json:"contact"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func CinemaToResponse(cinema *entity.Cinema) CinemaResponse {
	return CinemaResponse{
		ID:         cinema.ID.String(),
		Name:       cinema.Name,
		Location:   cinema.Location,
		Address:    cinema.Address,
		Screens:    cinema.Screens,
		TotalSeats: cinema.TotalSeats,
		Amenities:  nonNil(cinema.Amenities),
		Contact:    cinema.Contact,
		Image:      cinema.Image,
		CreatedAt:  cinema.CreatedAt,
		UpdatedAt:  cinema.UpdatedAt,
	}
}

func CinemasToResponse(cinemas []*entity.Cinema) []CinemaResponse {
	out := make([]CinemaResponse, 0, len(cinemas))
	for _, c := range cinemas {
		out = append(out, CinemaToResponse(c))
	}
	return out
}
