package repository

import (
	"time"

	"cookmyshow/internal/data/entity"

	"github.com/google/uuid"
)

type MovieFilter struct {
	Query string // case-insensitive title match
	Genre string
}

type ShowtimeFilter struct {
	MovieID  *uuid.UUID
	CinemaID *uuid.UUID
	From     *time.Time // inclusive
	To       *time.Time // exclusive
}

type BookingFilter struct {
	Status     *entity.BookingStatus
	ShowtimeID *uuid.UUID
	UserID     *uuid.UUID
}
