package usecase

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShowtimes_Schedule(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	movieID, cinemaID := uuid.New(), uuid.New()

	got := generateShowtimes(rand.New(rand.NewPCG(7, 7)), movieID, cinemaID, start, 14, start)
	again := generateShowtimes(rand.New(rand.NewPCG(7, 7)), movieID, cinemaID, start, 14, start)
	require.Len(t, again, len(got))

	perDay := make(map[string]int)
	for i, s := range got {
		assert.Equal(t, again[i].StartsAt, s.StartsAt, "same seed, same schedule")
		assert.Equal(t, again[i].ScreenType, s.ScreenType)
		assert.Equal(t, again[i].Price, s.Price)

		assert.Equal(t, movieID, s.MovieID)
		assert.Equal(t, cinemaID, s.CinemaID)

		day := s.StartsAt.Weekday()
		slots := weekdaySlots
		if day == time.Saturday || day == time.Sunday {
			slots = weekendSlots
		}
		assert.Contains(t, slots, s.StartsAt.Format(entity.TimeLayout))

		base, ok := basePrices[s.ScreenType]
		require.True(t, ok, "unknown screen %s", s.ScreenType)
		assert.InDelta(t, base, s.Price, 1.0001)

		perDay[s.StartsAt.Format(entity.DateLayout)]++
	}

	assert.Len(t, perDay, 14)
	for date, n := range perDay {
		assert.True(t, n == 2 || n == 3, "%s has %d showtimes", date, n)
	}
	assert.True(t, slices.IsSortedFunc(got, func(a, b *entity.Showtime) int {
		return a.StartsAt.Compare(b.StartsAt)
	}))
}

func TestShowtimes_CreateAndQuery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:  e.movie.ID.String(),
		CinemaID: e.cinema.ID.String(),
		Date:     "2026-03-04",
		Time:     "19:30",
		Price:    12.999,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenStandard, created.ScreenType)
	assert.Equal(t, 13.0, created.Price)
	assert.Equal(t, "Dune", created.MovieTitle)
	assert.Equal(t, "19:30", created.Time)

	_, err = e.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:  uuid.NewString(),
		CinemaID: e.cinema.ID.String(),
		Date:     "2026-03-04",
		Time:     "19:30",
		Price:    10,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:  e.movie.ID.String(),
		CinemaID: e.cinema.ID.String(),
		Date:     "04/03/2026",
		Time:     "7pm",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "date")
	assert.Contains(t, verr.Fields, "time")
	assert.Contains(t, verr.Fields, "price")

	// Rounds to zero cents.
	_, err = e.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:  e.movie.ID.String(),
		CinemaID: e.cinema.ID.String(),
		Date:     "2026-03-04",
		Time:     "21:00",
		Price:    0.004,
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"price": "Price must be at least 0.01"}, verr.Fields)

	onDay, err := e.svc.Showtime.GetShowtimes(ctx, &request.ShowtimeQuery{
		CinemaID: e.cinema.ID.String(),
		Date:     "2026-03-04",
	})
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	assert.Equal(t, "12:00", onDay[0].Time)
	assert.Equal(t, "19:30", onDay[1].Time)

	none, err := e.svc.Showtime.GetShowtimes(ctx, &request.ShowtimeQuery{Date: "2026-03-05"})
	require.NoError(t, err)
	assert.Empty(t, none)

	byCinema, err := e.svc.Cinema.GetCinemaShowtimes(ctx, e.cinema.ID, "")
	require.NoError(t, err)
	assert.Len(t, byCinema, 2)
}

func TestShowtimes_Generate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	got, err := e.svc.Showtime.GenerateShowtimes(ctx, &request.GenerateShowtimesRequest{
		MovieID:   e.movie.ID.String(),
		CinemaID:  e.cinema.ID.String(),
		StartDate: "2026-03-09",
		Days:      3,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(got), 6)
	assert.LessOrEqual(t, len(got), 9)
	for _, s := range got {
		assert.Equal(t, "Grand", s.CinemaName)
		assert.Contains(t, []string{"2026-03-09", "2026-03-10", "2026-03-11"}, s.Date)
	}

	all, err := e.svc.Showtime.GetShowtimes(ctx, &request.ShowtimeQuery{MovieID: e.movie.ID.String()})
	require.NoError(t, err)
	assert.Len(t, all, len(got)+1)

	_, err = e.svc.Showtime.GenerateShowtimes(ctx, &request.GenerateShowtimesRequest{
		MovieID:  e.movie.ID.String(),
		CinemaID: e.cinema.ID.String(),
		Days:     31,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShowtimes_DeleteInUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := uuid.MustParse(e.book(t, e.customer.ID, "A1"))

	err := e.svc.Showtime.DeleteShowtime(ctx, e.showtime.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.svc.Booking.CancelBooking(ctx, e.customerActor(), id)
	require.NoError(t, err)

	require.NoError(t, e.svc.Showtime.DeleteShowtime(ctx, e.showtime.ID))
	_, err = e.svc.Showtime.GetShowtimeByID(ctx, e.showtime.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, e.svc.Showtime.DeleteShowtime(ctx, e.showtime.ID), ErrNotFound)
}
