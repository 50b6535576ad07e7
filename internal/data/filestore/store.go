// Package filestore keeps every record in one JSON snapshot on local disk.
// All access goes through a single RWMutex and every mutation is written
// with an atomic, fsynced replace, so concurrent writers never lose updates
// and a crash never leaves a torn file behind.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const snapshotVersion = 1

// errNoChange lets a mutation report it changed nothing, skipping the write.
var errNoChange = errors.New("no change")

type snapshot struct {
	Version   int                `json:"version"`
	Users     []*entity.User     `json:"users"`
	Movies    []*entity.Movie    `json:"movies"`
	Cinemas   []*entity.Cinema   `json:"cinemas"`
	Showtimes []*entity.Showtime `json:"showtimes"`
	Bookings  []*entity.Booking  `json:"bookings"`
}

type state struct {
	users     map[uuid.UUID]*entity.User
	emails    map[string]uuid.UUID
	movies    map[uuid.UUID]*entity.Movie
	cinemas   map[uuid.UUID]*entity.Cinema
	showtimes map[uuid.UUID]*entity.Showtime
	bookings  map[uuid.UUID]*entity.Booking
	// seats maps showtime -> seat label -> live booking holding it.
	seats map[uuid.UUID]map[string]uuid.UUID
}

func newState() *state {
	return &state{
		users:     make(map[uuid.UUID]*entity.User),
		emails:    make(map[string]uuid.UUID),
		movies:    make(map[uuid.UUID]*entity.Movie),
		cinemas:   make(map[uuid.UUID]*entity.Cinema),
		showtimes: make(map[uuid.UUID]*entity.Showtime),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		seats:     make(map[uuid.UUID]map[string]uuid.UUID),
	}
}

type Store struct {
	mu   sync.RWMutex
	path string
	log  *zap.Logger
	data *state
	// last is the most recent snapshot that reached disk.
	last []byte
}

// Open loads the snapshot at path. A missing file starts an empty store.
func Open(path string, log *zap.Logger) (*Store, error) {
	s := &Store{
		path: path,
		log:  log.With(zap.String("repository", "filestore")),
		data: newState(),
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("Starting with empty data file", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load data file %s: %w", path, err)
	}
	s.data = data
	s.last = raw

	s.log.Info("Data file loaded",
		zap.String("path", path),
		zap.Int("movies", len(data.movies)),
		zap.Int("cinemas", len(data.cinemas)),
		zap.Int("showtimes", len(data.showtimes)),
		zap.Int("bookings", len(data.bookings)),
	)
	return s, nil
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:     &userRepo{s: s},
		Movie:    &movieRepo{s: s},
		Cinema:   &cinemaRepo{s: s},
		Showtime: &showtimeRepo{s: s},
		Booking:  &bookingRepo{s: s},
	}
}

func decode(raw []byte) (*state, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	st := newState()
	for _, u := range snap.Users {
		st.users[u.ID] = u
		st.emails[strings.ToLower(u.Email)] = u.ID
	}
	for _, m := range snap.Movies {
		st.movies[m.ID] = m
	}
	for _, c := range snap.Cinemas {
		st.cinemas[c.ID] = c
	}
	for _, sh := range snap.Showtimes {
		st.showtimes[sh.ID] = sh
	}
	for _, b := range snap.Bookings {
		st.bookings[b.ID] = b
		if !b.Status.IsLive() {
			continue
		}
		for _, seat := range b.Seats {
			if other, taken := st.seatOwner(b.ShowtimeID, seat); taken {
				return nil, fmt.Errorf("seat %s of showtime %s held by bookings %s and %s",
					seat, b.ShowtimeID, other, b.ID)
			}
			st.claim(b.ShowtimeID, b.ID, []string{seat})
		}
	}
	return st, nil
}

func (st *state) encode() ([]byte, error) {
	snap := snapshot{Version: snapshotVersion}
	for _, u := range st.users {
		snap.Users = append(snap.Users, u)
	}
	for _, m := range st.movies {
		snap.Movies = append(snap.Movies, m)
	}
	for _, c := range st.cinemas {
		snap.Cinemas = append(snap.Cinemas, c)
	}
	for _, sh := range st.showtimes {
		snap.Showtimes = append(snap.Showtimes, sh)
	}
	for _, b := range st.bookings {
		snap.Bookings = append(snap.Bookings, b)
	}

	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].CreatedAt.Before(snap.Users[j].CreatedAt) })
	sort.Slice(snap.Movies, func(i, j int) bool { return snap.Movies[i].CreatedAt.Before(snap.Movies[j].CreatedAt) })
	sort.Slice(snap.Cinemas, func(i, j int) bool { return snap.Cinemas[i].CreatedAt.Before(snap.Cinemas[j].CreatedAt) })
	sort.Slice(snap.Showtimes, func(i, j int) bool { return snap.Showtimes[i].StartsAt.Before(snap.Showtimes[j].StartsAt) })
	sort.Slice(snap.Bookings, func(i, j int) bool { return snap.Bookings[i].CreatedAt.Before(snap.Bookings[j].CreatedAt) })

	return json.MarshalIndent(snap, "", "  ")
}

func (st *state) seatOwner(showtimeID uuid.UUID, seat string) (uuid.UUID, bool) {
	owner, ok := st.seats[showtimeID][seat]
	return owner, ok
}

// takenSeats returns the seats of the list already held by a live booking.
func (st *state) takenSeats(showtimeID uuid.UUID, seats []string) []string {
	var taken []string
	for _, seat := range seats {
		if _, ok := st.seatOwner(showtimeID, seat); ok {
			taken = append(taken, seat)
		}
	}
	return taken
}

func (st *state) claim(showtimeID, bookingID uuid.UUID, seats []string) {
	held := st.seats[showtimeID]
	if held == nil {
		held = make(map[string]uuid.UUID)
		st.seats[showtimeID] = held
	}
	for _, seat := range seats {
		held[seat] = bookingID
	}
}

func (st *state) release(showtimeID, bookingID uuid.UUID, seats []string) {
	held := st.seats[showtimeID]
	for _, seat := range seats {
		if held[seat] == bookingID {
			delete(held, seat)
		}
	}
	if len(held) == 0 {
		delete(st.seats, showtimeID)
	}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// mutate runs fn under the write lock and persists the result. fn must leave
// the state untouched when it returns an error. If the write fails the
// in-memory state is rolled back to what is on disk.
func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.data); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	if err := s.persist(); err != nil {
		s.log.Error("Failed to persist data file", zap.Error(err), zap.String("path", s.path))
		s.rollback()
		return err
	}
	return nil
}

func (s *Store) persist() error {
	raw, err := s.data.encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending data file: %w", err)
	}
	defer pendingFile.Cleanup()

	if _, err := pendingFile.Write(raw); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace data file: %w", err)
	}

	s.last = raw
	return nil
}

func (s *Store) rollback() {
	if s.last == nil {
		s.data = newState()
		return
	}
	data, err := decode(s.last)
	if err != nil {
		// last was produced by encode, so this only happens on a bug.
		s.log.Error("Failed to restore last snapshot", zap.Error(err))
		return
	}
	s.data = data
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
