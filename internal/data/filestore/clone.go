package filestore

import (
	"time"

	"cookmyshow/internal/data/entity"
)

// Records never leave the store by pointer; callers get copies.

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func cloneMovie(m *entity.Movie) *entity.Movie {
	c := *m
	c.DeletedAt = cloneTime(m.DeletedAt)
	c.ReleaseDate = cloneTime(m.ReleaseDate)
	c.Genres = cloneStrings(m.Genres)
	c.Cast = cloneStrings(m.Cast)
	return &c
}

func cloneCinema(cn *entity.Cinema) *entity.Cinema {
	c := *cn
	c.DeletedAt = cloneTime(cn.DeletedAt)
	c.Amenities = cloneStrings(cn.Amenities)
	return &c
}

func cloneShowtime(s *entity.Showtime) *entity.Showtime {
	c := *s
	return &c
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	c.Seats = cloneStrings(b.Seats)
	c.PaidAt = cloneTime(b.PaidAt)
	return &c
}
