package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScreenType string

const (
	ScreenStandard ScreenType = "Standard"
	ScreenIMAX     ScreenType = "IMAX"
	ScreenVIP      ScreenType = "VIP"
	Screen4DX      ScreenType = "4DX"
)

var ScreenTypes = []ScreenType{ScreenStandard, ScreenIMAX, ScreenVIP, Screen4DX}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Showtime struct {
	BaseNoDelete
	MovieID    uuid.UUID  `db:"movie_id" json:"movie_id"`
	CinemaID   uuid.UUID  `db:"cinema_id" json:"cinema_id"`
	StartsAt   time.Time  `db:"starts_at" json:"starts_at"`
	ScreenType ScreenType `db:"screen_type" json:"screen_type"`
	Price      float64    `db:"price" json:"price"`

	// Filled by joins on read, never stored.
	MovieTitle string `db:"-" json:"-"`
	CinemaName string `db:"-" json:"-"`
}

func (s *Showtime) Date() string {
	return s.StartsAt.Format(DateLayout)
}

func (s *Showtime) Time() string {
	return s.StartsAt.Format(TimeLayout)
}
