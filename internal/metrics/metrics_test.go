package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCounters(t *testing.T) {
	created := bookingsTotal.WithLabelValues("booking.created")
	before := counterValue(t, created)
	BookingEvent("booking.created")
	assert.Equal(t, before+1, counterValue(t, created))

	conflicts := seatConflictsTotal.WithLabelValues(StageBook)
	before = counterValue(t, conflicts)
	SeatConflict(StageBook)
	SeatConflict(StageBook)
	assert.Equal(t, before+2, counterValue(t, conflicts))
}
