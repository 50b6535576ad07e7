package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_Embedded(t *testing.T) {
	for _, table := range []string{"users", "movies", "cinemas", "showtimes", "bookings", "booking_seats"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.True(t, strings.Contains(schema, "PRIMARY KEY (showtime_id, seat)"))
}
