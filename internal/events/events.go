// Package events publishes booking lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"cookmyshow/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	BookingRestored  Type = "booking.restored"
	BookingExpired   Type = "booking.expired"
)

// Event carries enough of a booking for consumers to act without reading
// the primary store.
type Event struct {
	ID         uuid.UUID            `json:"id"`
	Type       Type                 `json:"type"`
	OccurredAt time.Time            `json:"occurred_at"`
	BookingID  uuid.UUID            `json:"booking_id"`
	OrderID    string               `json:"order_id"`
	UserID     uuid.UUID            `json:"user_id"`
	ShowtimeID uuid.UUID            `json:"showtime_id"`
	MovieTitle string               `json:"movie_title"`
	CinemaName string               `json:"cinema_name"`
	StartsAt   time.Time            `json:"starts_at"`
	Seats      []string             `json:"seats"`
	TotalPrice float64              `json:"total_price"`
	Status     entity.BookingStatus `json:"status"`
}

func NewBookingEvent(t Type, b *entity.Booking, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: now.UTC(),
		BookingID:  b.ID,
		OrderID:    b.OrderID,
		UserID:     b.UserID,
		ShowtimeID: b.ShowtimeID,
		MovieTitle: b.MovieTitle,
		CinemaName: b.CinemaName,
		StartsAt:   b.StartsAt,
		Seats:      append([]string(nil), b.Seats...),
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
	}
}

// Publisher delivers events. Publish errors are for logging only; a booking
// is never rolled back because its event could not be sent.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type logPublisher struct {
	log *zap.Logger
}

// NewLogPublisher writes events to the log instead of a broker.
func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *logPublisher) Publish(ctx context.Context, ev Event) error {
	logEvent(p.log, ev)
	return nil
}

func (p *logPublisher) Close() error { return nil }

func logEvent(log *zap.Logger, ev Event) {
	log.Info("Booking event",
		zap.String("type", string(ev.Type)),
		zap.String("event_id", ev.ID.String()),
		zap.String("booking_id", ev.BookingID.String()),
		zap.String("order_id", ev.OrderID),
		zap.String("user_id", ev.UserID.String()),
		zap.String("showtime_id", ev.ShowtimeID.String()),
		zap.String("movie", ev.MovieTitle),
		zap.String("cinema", ev.CinemaName),
		zap.Strings("seats", ev.Seats),
		zap.Float64("total_price", ev.TotalPrice),
	)
}
