package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const MaxSeatRows = 26

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatHeld      SeatStatus = "held"
	SeatHeldByYou SeatStatus = "held_by_you"
)

// SeatLayout is the auditorium grid shared by every showtime: rows A.. and
// numbers 1..SeatsPerRow, the last PremiumRows rows being premium.
type SeatLayout struct {
	Rows        int
	SeatsPerRow int
	PremiumRows int
}

type Seat struct {
	Label   string
	Row     string
	Number  int
	Premium bool
}

func (l SeatLayout) RowLabels() []string {
	rows := make([]string, 0, l.Rows)
	for i := 0; i < l.Rows && i < MaxSeatRows; i++ {
		rows = append(rows, string(rune('A'+i)))
	}
	return rows
}

func (l SeatLayout) isPremium(rowIndex int) bool {
	return rowIndex >= l.Rows-l.PremiumRows
}

// Seats lists every seat in row-major order.
func (l SeatLayout) Seats() []Seat {
	seats := make([]Seat, 0, l.Rows*l.SeatsPerRow)
	for i, row := range l.RowLabels() {
		for n := 1; n <= l.SeatsPerRow; n++ {
			seats = append(seats, Seat{
				Label:   row + strconv.Itoa(n),
				Row:     row,
				Number:  n,
				Premium: l.isPremium(i),
			})
		}
	}
	return seats
}

// Parse canonicalises a label such as "a5" and checks it lies on the grid.
func (l SeatLayout) Parse(label string) (Seat, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 2 {
		return Seat{}, fmt.Errorf("invalid seat %q", label)
	}

	rowIndex := int(s[0] - 'A')
	if rowIndex < 0 || rowIndex >= l.Rows || rowIndex >= MaxSeatRows {
		return Seat{}, fmt.Errorf("invalid seat %q", label)
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 || n > l.SeatsPerRow || s[1] == '0' || s[1] == '+' {
		return Seat{}, fmt.Errorf("invalid seat %q", label)
	}

	row := s[:1]
	return Seat{
		Label:   row + strconv.Itoa(n),
		Row:     row,
		Number:  n,
		Premium: l.isPremium(rowIndex),
	}, nil
}

// Normalize canonicalises labels, rejects off-grid seats and duplicates, and
// returns them in row-major order.
func (l SeatLayout) Normalize(labels []string) ([]string, error) {
	seen := make(map[string]bool, len(labels))
	parsed := make([]Seat, 0, len(labels))

	for _, label := range labels {
		seat, err := l.Parse(label)
		if err != nil {
			return nil, err
		}
		if seen[seat.Label] {
			return nil, fmt.Errorf("duplicate seat %s", seat.Label)
		}
		seen[seat.Label] = true
		parsed = append(parsed, seat)
	}

	sort.Slice(parsed, func(i, j int) bool {
		if parsed[i].Row != parsed[j].Row {
			return parsed[i].Row < parsed[j].Row
		}
		return parsed[i].Number < parsed[j].Number
	})

	out := make([]string, len(parsed))
	for i, seat := range parsed {
		out[i] = seat.Label
	}
	return out, nil
}
