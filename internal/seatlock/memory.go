package seatlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryLocker struct {
	mu    sync.Mutex
	holds map[uuid.UUID]map[string]Hold
	now   func() time.Time
}

// NewMemoryLocker keeps holds in process memory. now may be nil.
func NewMemoryLocker(now func() time.Time) Locker {
	if now == nil {
		now = time.Now
	}
	return &memoryLocker{
		holds: make(map[uuid.UUID]map[string]Hold),
		now:   now,
	}
}

// live drops expired holds of a showtime and returns what is left.
func (m *memoryLocker) live(showtimeID uuid.UUID) map[string]Hold {
	held := m.holds[showtimeID]
	now := m.now()
	for seat, h := range held {
		if !h.ExpiresAt.After(now) {
			delete(held, seat)
		}
	}
	if len(held) == 0 {
		delete(m.holds, showtimeID)
		return nil
	}
	return held
}

func (m *memoryLocker) Hold(ctx context.Context, showtimeID, userID uuid.UUID, seats []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	held := m.live(showtimeID)

	var taken []string
	for _, seat := range seats {
		if h, ok := held[seat]; ok && h.UserID != userID {
			taken = append(taken, seat)
		}
	}
	if len(taken) > 0 {
		return &HeldError{Seats: taken}
	}

	if held == nil {
		held = make(map[string]Hold, len(seats))
		m.holds[showtimeID] = held
	}
	expires := m.now().Add(ttl)
	for _, seat := range seats {
		held[seat] = Hold{UserID: userID, ExpiresAt: expires}
	}
	return nil
}

func (m *memoryLocker) Release(ctx context.Context, showtimeID, userID uuid.UUID, seats []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	held := m.live(showtimeID)
	if len(seats) == 0 {
		for seat, h := range held {
			if h.UserID == userID {
				delete(held, seat)
			}
		}
	} else {
		for _, seat := range seats {
			if h, ok := held[seat]; ok && h.UserID == userID {
				delete(held, seat)
			}
		}
	}
	if held != nil && len(held) == 0 {
		delete(m.holds, showtimeID)
	}
	return nil
}

func (m *memoryLocker) Holders(ctx context.Context, showtimeID uuid.UUID) (map[string]Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Hold)
	for seat, h := range m.live(showtimeID) {
		out[seat] = h
	}
	return out, nil
}
