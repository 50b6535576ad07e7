// Package metrics holds the booking-domain Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Seat conflict stages.
const (
	StageHold    = "hold"
	StageBook    = "book"
	StageRestore = "restore"
)

var (
	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cookmyshow_bookings_total",
		Help: "Booking lifecycle events by type",
	}, []string{"event"})

	seatConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cookmyshow_seat_conflicts_total",
		Help: "Seat requests rejected because the seat was taken, by stage",
	}, []string{"stage"})
)

func BookingEvent(event string) {
	bookingsTotal.WithLabelValues(event).Inc()
}

func SeatConflict(stage string) {
	seatConflictsTotal.WithLabelValues(stage).Inc()
}
