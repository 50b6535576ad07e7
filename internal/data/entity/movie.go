package entity

import (
	"time"
)

type Movie struct {
	Base
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Poster          string     `db:"poster" json:"poster"`
	Banner          string     `db:"banner" json:"banner"`
	Rating          float64    `db:"rating" json:"rating"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	ReleaseDate     *time.Time `db:"release_date" json:"release_date,omitempty"`
	Genres          []string   `db:"genres" json:"genres"`
	Language        string     `db:"language" json:"language"`
	Director        string     `db:"director" json:"director"`
	Cast            []string   `db:"cast_members" json:"cast"`
	TrailerURL      string     `db:"trailer_url" json:"trailer_url"`
}
