package usecase

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/filestore"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/events"
	"cookmyshow/internal/seatlock"
	"cookmyshow/internal/tokenstore"
	"cookmyshow/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		Booking: utils.BookingConfig{
			SeatRows:           10,
			SeatsPerRow:        16,
			PremiumRows:        3,
			MaxSeatsPerBooking: 10,
			HoldTTL:            5 * time.Minute,
			PaymentWindow:      15 * time.Minute,
			SweepInterval:      time.Minute,
		},
	}
}

type env struct {
	svc    *Service
	repo   *repository.Repository
	clock  *testClock
	locker seatlock.Locker
	events *recordingPublisher

	customer *entity.User
	other    *entity.User
	movie    *entity.Movie
	cinema   *entity.Cinema
	showtime *entity.Showtime
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "cookmyshow.json"), zap.NewNop())
	require.NoError(t, err)
	repo := store.Repository()

	// A Monday, so generated schedules start on a weekday.
	clock := &testClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	locker := seatlock.NewMemoryLocker(clock.Now)
	pub := &recordingPublisher{}

	svc := NewService(repo, Deps{
		Locker: locker,
		Tokens: tokenstore.NewMemoryStore(clock.Now),
		Events: pub,
		Now:    clock.Now,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	}, testConfig(), zap.NewNop())

	e := &env{svc: svc, repo: repo, clock: clock, locker: locker, events: pub}

	ctx := context.Background()
	now := clock.Now()
	e.customer = &entity.User{BaseNoDelete: entity.NewBaseNoDelete(now), Name: "Ana", Email: "ana@example.com", Role: entity.RoleCustomer, IsActive: true}
	e.other = &entity.User{BaseNoDelete: entity.NewBaseNoDelete(now), Name: "Ben", Email: "ben@example.com", Role: entity.RoleCustomer, IsActive: true}
	require.NoError(t, repo.User.Create(ctx, e.customer))
	require.NoError(t, repo.User.Create(ctx, e.other))

	e.movie = &entity.Movie{Base: entity.NewBase(now), Title: "Dune", Description: "Sand", Poster: "https://img.example/dune.jpg"}
	require.NoError(t, repo.Movie.Create(ctx, e.movie))

	e.cinema = &entity.Cinema{Base: entity.NewBase(now), Name: "Grand", Location: "Downtown", Screens: 4, TotalSeats: 100}
	require.NoError(t, repo.Cinema.Create(ctx, e.cinema))

	e.showtime = &entity.Showtime{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		MovieID:      e.movie.ID,
		CinemaID:     e.cinema.ID,
		StartsAt:     now.Add(48 * time.Hour),
		ScreenType:   entity.ScreenIMAX,
		Price:        18.99,
	}
	require.NoError(t, repo.Showtime.Create(ctx, e.showtime))

	return e
}

func (e *env) customerActor() Actor {
	return Actor{UserID: e.customer.ID}
}
