package response

import (
	"time"

	"cookmyshow/internal/data/entity"
)

type MovieResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Poster          string    `json:"poster"`
	Banner          string    `json:"banner"`
	Rating          float64   `json:"rating"`
	DurationMinutes int       `json:"duration_minutes"`
	ReleaseDate     string    `json:"release_date,omitempty"`
	Genres          []string  `json:"genres"`
	Language        string    `json:"language"`
	Director        string    `json:"director"`
	Cast            []string  `json:"cast"`
	TrailerURL      string    `json:"trailer_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	resp := MovieResponse{
		ID:              movie.ID.String(),
		Title:           movie.Title,
		Description:     movie.Description,
		Poster:          movie.Poster,
		Banner:          movie.Banner,
		Rating:          movie.Rating,
		DurationMinutes: movie.DurationMinutes,
		Genres:          nonNil(movie.Genres),
		Language:        movie.Language,
		Director:        movie.Director,
		Cast:            nonNil(movie.Cast),
		TrailerURL:      movie.TrailerURL,
		CreatedAt:       movie.CreatedAt,
		UpdatedAt:       movie.UpdatedAt,
	}
	if movie.ReleaseDate != nil {
		resp.ReleaseDate = movie.ReleaseDate.Format(entity.DateLayout)
	}
	return resp
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieToResponse(m))
	}
	return out
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
