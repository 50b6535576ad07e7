package filestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"

	"github.com/google/uuid"
)

type bookingRepo struct {
	s *Store
}

// Create checks and claims the seats under the store's write lock, which is
// what keeps two concurrent requests from booking the same seat.
func (r *bookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return r.s.mutate(func(st *state) error {
		if _, ok := st.showtimes[booking.ShowtimeID]; !ok {
			return fmt.Errorf("create booking %s: showtime %s: %w", booking.OrderID, booking.ShowtimeID, repository.ErrNotFound)
		}
		if _, ok := st.users[booking.UserID]; !ok {
			return fmt.Errorf("create booking %s: user %s: %w", booking.OrderID, booking.UserID, repository.ErrNotFound)
		}
		if _, exists := st.bookings[booking.ID]; exists {
			return fmt.Errorf("create booking %s: %w", booking.OrderID, repository.ErrDuplicate)
		}
		for _, b := range st.bookings {
			if b.OrderID == booking.OrderID {
				return fmt.Errorf("create booking %s: %w", booking.OrderID, repository.ErrDuplicate)
			}
		}

		if booking.Status.IsLive() {
			if taken := st.takenSeats(booking.ShowtimeID, booking.Seats); len(taken) > 0 {
				return fmt.Errorf("create booking %s: %w", booking.OrderID, &repository.SeatConflictError{Seats: taken})
			}
		}

		c := cloneBooking(booking)
		st.bookings[c.ID] = c
		if c.Status.IsLive() {
			st.claim(c.ShowtimeID, c.ID, c.Seats)
		}
		return nil
	})
}

func (r *bookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking *entity.Booking
	r.s.read(func(st *state) {
		if b, ok := st.bookings[id]; ok {
			booking = cloneBooking(b)
		}
	})
	return booking, nil
}

func (r *bookingRepo) collect(match func(b *entity.Booking) bool) []*entity.Booking {
	var bookings []*entity.Booking
	r.s.read(func(st *state) {
		for _, b := range st.bookings {
			if match(b) {
				bookings = append(bookings, cloneBooking(b))
			}
		}
	})
	return bookings
}

func newestFirst(bookings []*entity.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].OrderID > bookings[j].OrderID
	})
}

func (r *bookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	bookings := r.collect(func(b *entity.Booking) bool { return b.UserID == userID })
	newestFirst(bookings)
	return page(bookings, limit, offset), nil
}

func (r *bookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.collect(func(b *entity.Booking) bool { return b.UserID == userID }))), nil
}

func matchBooking(b *entity.Booking, f repository.BookingFilter) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.ShowtimeID != nil && b.ShowtimeID != *f.ShowtimeID {
		return false
	}
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	return true
}

func (r *bookingRepo) FindAll(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	bookings := r.collect(func(b *entity.Booking) bool { return matchBooking(b, filter) })
	newestFirst(bookings)
	return page(bookings, limit, offset), nil
}

func (r *bookingRepo) CountAll(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	return int64(len(r.collect(func(b *entity.Booking) bool { return matchBooking(b, filter) }))), nil
}

func (r *bookingRepo) FindCreatedSince(ctx context.Context, since time.Time) ([]*entity.Booking, error) {
	bookings := r.collect(func(b *entity.Booking) bool { return !b.CreatedAt.Before(since) })
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.Before(bookings[j].CreatedAt) })
	return bookings, nil
}

func (r *bookingRepo) BookedSeats(ctx context.Context, showtimeID uuid.UUID) ([]string, error) {
	seats := []string{}
	r.s.read(func(st *state) {
		for seat := range st.seats[showtimeID] {
			seats = append(seats, seat)
		}
	})
	sort.Strings(seats)
	return seats, nil
}

func (st *state) expect(id uuid.UUID, from entity.BookingStatus) (*entity.Booking, error) {
	b, ok := st.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != from {
		return nil, repository.ErrStaleState
	}
	return b, nil
}

func (r *bookingRepo) Transition(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, now time.Time) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.s.mutate(func(st *state) error {
		b, err := st.expect(id, from)
		if err != nil {
			return fmt.Errorf("booking %s %s->%s: %w", id, from, to, err)
		}

		switch {
		case from.IsLive() && !to.IsLive():
			st.release(b.ShowtimeID, b.ID, b.Seats)
		case !from.IsLive() && to.IsLive():
			if _, ok := st.showtimes[b.ShowtimeID]; !ok {
				return fmt.Errorf("restore booking %s: showtime %s: %w", id, b.ShowtimeID, repository.ErrNotFound)
			}
			if taken := st.takenSeats(b.ShowtimeID, b.Seats); len(taken) > 0 {
				return fmt.Errorf("restore booking %s: %w", id, &repository.SeatConflictError{Seats: taken})
			}
			st.claim(b.ShowtimeID, b.ID, b.Seats)
		}

		b.Status = to
		b.UpdatedAt = now
		out = cloneBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) MarkPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod, ref string, paidAt time.Time) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.s.mutate(func(st *state) error {
		b, err := st.expect(id, entity.BookingStatusPending)
		if err != nil {
			return fmt.Errorf("pay booking %s: %w", id, err)
		}
		b.Status = entity.BookingStatusConfirmed
		b.PaymentMethod = method
		b.PaymentRef = ref
		b.PaidAt = &paidAt
		b.UpdatedAt = paidAt
		out = cloneBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]*entity.Booking, error) {
	var expired []*entity.Booking
	err := r.s.mutate(func(st *state) error {
		for _, b := range st.bookings {
			if b.Status != entity.BookingStatusPending || !b.CreatedAt.Before(createdBefore) {
				continue
			}
			st.release(b.ShowtimeID, b.ID, b.Seats)
			b.Status = entity.BookingStatusExpired
			b.UpdatedAt = now
			expired = append(expired, cloneBooking(b))
		}
		if len(expired) == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].CreatedAt.Before(expired[j].CreatedAt) })
	return expired, nil
}
