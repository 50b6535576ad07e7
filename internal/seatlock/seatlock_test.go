package seatlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func lockers(t *testing.T) map[string]func(*fakeClock) Locker {
	t.Helper()
	return map[string]func(*fakeClock) Locker{
		"memory": func(c *fakeClock) Locker {
			return NewMemoryLocker(c.Now)
		},
		"redis": func(c *fakeClock) Locker {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return NewRedisLocker(rdb, zap.NewNop(), c.Now)
		},
	}
}

func TestLocker_HoldIsExclusive(t *testing.T) {
	for name, newLocker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := &fakeClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
			l := newLocker(clock)
			showtime, alice, bob := uuid.New(), uuid.New(), uuid.New()

			require.NoError(t, l.Hold(ctx, showtime, alice, []string{"A1", "A2"}, 5*time.Minute))

			err := l.Hold(ctx, showtime, bob, []string{"A3", "A2"}, 5*time.Minute)
			require.ErrorIs(t, err, ErrSeatHeld)
			var held *HeldError
			require.ErrorAs(t, err, &held)
			assert.Equal(t, []string{"A2"}, held.Seats)

			holders, err := l.Holders(ctx, showtime)
			require.NoError(t, err)
			assert.Len(t, holders, 2, "a rejected hold must not take any seat")
			assert.Equal(t, alice, holders["A1"].UserID)

			// Holding again refreshes the owner's own holds.
			require.NoError(t, l.Hold(ctx, showtime, alice, []string{"A2", "A3"}, 5*time.Minute))
			holders, err = l.Holders(ctx, showtime)
			require.NoError(t, err)
			assert.Len(t, holders, 3)
		})
	}
}

func TestLocker_HoldsExpire(t *testing.T) {
	for name, newLocker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := &fakeClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
			l := newLocker(clock)
			showtime, alice, bob := uuid.New(), uuid.New(), uuid.New()

			require.NoError(t, l.Hold(ctx, showtime, alice, []string{"B5"}, time.Minute))

			clock.Advance(time.Minute + time.Second)

			holders, err := l.Holders(ctx, showtime)
			require.NoError(t, err)
			assert.Empty(t, holders)

			require.NoError(t, l.Hold(ctx, showtime, bob, []string{"B5"}, time.Minute))
			holders, err = l.Holders(ctx, showtime)
			require.NoError(t, err)
			assert.Equal(t, bob, holders["B5"].UserID)
		})
	}
}

func TestLocker_ReleaseOnlyOwnHolds(t *testing.T) {
	for name, newLocker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := &fakeClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
			l := newLocker(clock)
			showtime, alice, bob := uuid.New(), uuid.New(), uuid.New()

			require.NoError(t, l.Hold(ctx, showtime, alice, []string{"C1", "C2", "C3"}, time.Minute))
			require.NoError(t, l.Hold(ctx, showtime, bob, []string{"D1"}, time.Minute))

			require.NoError(t, l.Release(ctx, showtime, bob, []string{"C1"}))
			require.NoError(t, l.Release(ctx, showtime, alice, []string{"C1"}))

			holders, err := l.Holders(ctx, showtime)
			require.NoError(t, err)
			assert.Len(t, holders, 3)
			assert.NotContains(t, holders, "C1")

			require.NoError(t, l.Release(ctx, showtime, alice, nil))
			holders, err = l.Holders(ctx, showtime)
			require.NoError(t, err)
			require.Len(t, holders, 1)
			assert.Equal(t, bob, holders["D1"].UserID)
		})
	}
}

func TestLocker_ConcurrentHoldsSingleWinner(t *testing.T) {
	for name, newLocker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := &fakeClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
			l := newLocker(clock)
			showtime := uuid.New()

			const n = 16
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := l.Hold(ctx, showtime, uuid.New(), []string{"E7", "E8"}, time.Minute); err == nil {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, wins)
		})
	}
}

func TestParseHold(t *testing.T) {
	id := uuid.New()
	h, ok := parseHold(id.String() + "|1772388000000")
	require.True(t, ok)
	assert.Equal(t, id, h.UserID)
	assert.Equal(t, int64(1772388000000), h.ExpiresAt.UnixMilli())

	for _, bad := range []string{"", "nope", "nope|1", id.String() + "|x"} {
		_, ok := parseHold(bad)
		assert.False(t, ok, bad)
	}
}
