package usecase

import (
	"context"
	"testing"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatMap_Statuses(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.book(t, e.customer.ID, "A1")
	_, err := e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.other.ID, &request.HoldSeatsRequest{Seats: []string{"A2"}})
	require.NoError(t, err)
	_, err = e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.customer.ID, &request.HoldSeatsRequest{Seats: []string{"A3"}})
	require.NoError(t, err)

	seatMap, err := e.svc.Seat.GetSeatMap(ctx, e.showtime.ID, e.customer.ID)
	require.NoError(t, err)

	statuses := make(map[string]entity.SeatStatus)
	for _, s := range seatMap.Seats {
		statuses[s.Label] = s.Status
	}
	assert.Equal(t, entity.SeatBooked, statuses["A1"])
	assert.Equal(t, entity.SeatHeld, statuses["A2"])
	assert.Equal(t, entity.SeatHeldByYou, statuses["A3"])
	assert.Equal(t, entity.SeatAvailable, statuses["A4"])
	assert.ElementsMatch(t, []string{"A2", "A3"}, seatMap.Held)
	assert.Equal(t, 10, seatMap.Rows)
	assert.Equal(t, 16, seatMap.SeatsPerRow)
	assert.Equal(t, 18.99, seatMap.Price)

	anon, err := e.svc.Seat.GetSeatMap(ctx, e.showtime.ID, uuid.Nil)
	require.NoError(t, err)
	for _, s := range anon.Seats {
		assert.NotEqual(t, entity.SeatHeldByYou, s.Status)
	}

	_, err = e.svc.Seat.GetSeatMap(ctx, uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeatHold_Conflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.book(t, e.customer.ID, "B1")

	_, err := e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.other.ID, &request.HoldSeatsRequest{Seats: []string{"B1", "B2"}})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonBooked, conflict.Reason)

	_, err = e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.other.ID, &request.HoldSeatsRequest{Seats: []string{"B2"}})
	require.NoError(t, err)

	_, err = e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.customer.ID, &request.HoldSeatsRequest{Seats: []string{"B2", "B3"}})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonHeld, conflict.Reason)
	assert.Equal(t, []string{"B2"}, conflict.Seats)

	require.NoError(t, e.svc.Seat.ReleaseSeats(ctx, e.showtime.ID, e.other.ID, &request.ReleaseSeatsRequest{}))
	_, err = e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.customer.ID, &request.HoldSeatsRequest{Seats: []string{"B2", "B3"}})
	require.NoError(t, err)

	_, err = e.svc.Seat.HoldSeats(ctx, e.showtime.ID, e.customer.ID, &request.HoldSeatsRequest{Seats: []string{"Q99"}})
	assert.ErrorIs(t, err, ErrValidation)
}
