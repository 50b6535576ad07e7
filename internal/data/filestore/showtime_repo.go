package filestore

import (
	"context"
	"fmt"
	"sort"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"

	"github.com/google/uuid"
)

type showtimeRepo struct {
	s *Store
}

// withNames fills the joined movie title and cinema name.
func (st *state) withNames(s *entity.Showtime) *entity.Showtime {
	c := cloneShowtime(s)
	if m, ok := st.movies[s.MovieID]; ok {
		c.MovieTitle = m.Title
	}
	if cn, ok := st.cinemas[s.CinemaID]; ok {
		c.CinemaName = cn.Name
	}
	return c
}

func (st *state) checkShowtimeRefs(s *entity.Showtime) error {
	if _, ok := st.movies[s.MovieID]; !ok {
		return fmt.Errorf("showtime movie %s: %w", s.MovieID, repository.ErrNotFound)
	}
	if _, ok := st.cinemas[s.CinemaID]; !ok {
		return fmt.Errorf("showtime cinema %s: %w", s.CinemaID, repository.ErrNotFound)
	}
	if _, exists := st.showtimes[s.ID]; exists {
		return fmt.Errorf("create showtime %s: %w", s.ID, repository.ErrDuplicate)
	}
	return nil
}

func (r *showtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	return r.CreateBatch(ctx, []*entity.Showtime{showtime})
}

func (r *showtimeRepo) CreateBatch(ctx context.Context, showtimes []*entity.Showtime) error {
	if len(showtimes) == 0 {
		return nil
	}
	return r.s.mutate(func(st *state) error {
		for _, s := range showtimes {
			if err := st.checkShowtimeRefs(s); err != nil {
				return err
			}
		}
		for _, s := range showtimes {
			c := cloneShowtime(s)
			c.MovieTitle, c.CinemaName = "", ""
			st.showtimes[c.ID] = c
		}
		return nil
	})
}

func (r *showtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	var showtime *entity.Showtime
	r.s.read(func(st *state) {
		if s, ok := st.showtimes[id]; ok {
			showtime = st.withNames(s)
		}
	})
	return showtime, nil
}

func matchShowtime(s *entity.Showtime, f repository.ShowtimeFilter) bool {
	if f.MovieID != nil && s.MovieID != *f.MovieID {
		return false
	}
	if f.CinemaID != nil && s.CinemaID != *f.CinemaID {
		return false
	}
	if f.From != nil && s.StartsAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.StartsAt.Before(*f.To) {
		return false
	}
	return true
}

func (r *showtimeRepo) FindAll(ctx context.Context, filter repository.ShowtimeFilter) ([]*entity.Showtime, error) {
	var showtimes []*entity.Showtime
	r.s.read(func(st *state) {
		for _, s := range st.showtimes {
			if matchShowtime(s, filter) {
				showtimes = append(showtimes, st.withNames(s))
			}
		}
	})
	sort.Slice(showtimes, func(i, j int) bool {
		if !showtimes[i].StartsAt.Equal(showtimes[j].StartsAt) {
			return showtimes[i].StartsAt.Before(showtimes[j].StartsAt)
		}
		return showtimes[i].CinemaName < showtimes[j].CinemaName
	})
	return showtimes, nil
}

func (r *showtimeRepo) CountAll(ctx context.Context) (int64, error) {
	var total int64
	r.s.read(func(st *state) { total = int64(len(st.showtimes)) })
	return total, nil
}

func (r *showtimeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.mutate(func(st *state) error {
		if _, ok := st.showtimes[id]; !ok {
			return fmt.Errorf("delete showtime %s: %w", id, repository.ErrNotFound)
		}
		if len(st.seats[id]) > 0 {
			return fmt.Errorf("delete showtime %s: %w", id, repository.ErrShowtimeInUse)
		}
		delete(st.showtimes, id)
		return nil
	})
}
