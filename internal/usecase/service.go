package usecase

import (
	"math/rand/v2"
	"sync"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/events"
	"cookmyshow/internal/seatlock"
	"cookmyshow/internal/tokenstore"
	"cookmyshow/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Movie     MovieService
	Cinema    CinemaService
	Showtime  ShowtimeService
	Seat      SeatService
	Booking   BookingService
	Analytics AnalyticsService
}

// Deps are the collaborators besides the repositories. Zero fields get
// in-memory or default implementations.
type Deps struct {
	Locker seatlock.Locker
	Tokens tokenstore.Store
	Events events.Publisher
	Now    func() time.Time
	Rand   *rand.Rand
}

func (d Deps) withDefaults(log *zap.Logger) Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Locker == nil {
		d.Locker = seatlock.NewMemoryLocker(d.Now)
	}
	if d.Tokens == nil {
		d.Tokens = tokenstore.NewMemoryStore(d.Now)
	}
	if d.Events == nil {
		d.Events = events.NewLogPublisher(log)
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(uint64(d.Now().UnixNano()), 0x636d73))
	}
	return d
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	deps = deps.withDefaults(log)
	layout := seatLayout(config.Booking)

	return &Service{
		Auth:      NewAuthService(repo, deps.Tokens, deps.Now, config, log),
		User:      NewUserService(repo.User, deps.Now, log),
		Movie:     NewMovieService(repo, deps.Now, log),
		Cinema:    NewCinemaService(repo, deps.Now, log),
		Showtime:  NewShowtimeService(repo, deps.Now, newLockedRand(deps.Rand), log),
		Seat:      NewSeatService(repo, deps.Locker, layout, deps.Now, config.Booking, log),
		Booking:   NewBookingService(repo, deps.Locker, deps.Events, layout, deps.Now, config.Booking, log),
		Analytics: NewAnalyticsService(repo, deps.Now, log),
	}
}

func seatLayout(cfg utils.BookingConfig) entity.SeatLayout {
	return entity.SeatLayout{
		Rows:        cfg.SeatRows,
		SeatsPerRow: cfg.SeatsPerRow,
		PremiumRows: cfg.PremiumRows,
	}
}

// lockedRand serialises access to a *rand.Rand shared across requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(r *rand.Rand) *lockedRand {
	return &lockedRand{r: r}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}
