package filestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"

	"github.com/google/uuid"
)

type movieRepo struct {
	s *Store
}

func (r *movieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	return r.s.mutate(func(st *state) error {
		if _, exists := st.movies[movie.ID]; exists {
			return fmt.Errorf("create movie %s: %w", movie.ID, repository.ErrDuplicate)
		}
		st.movies[movie.ID] = cloneMovie(movie)
		return nil
	})
}

func (r *movieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	var movie *entity.Movie
	r.s.read(func(st *state) {
		if m, ok := st.movies[id]; ok && m.DeletedAt == nil {
			movie = cloneMovie(m)
		}
	})
	return movie, nil
}

func (r *movieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	return r.s.mutate(func(st *state) error {
		existing, ok := st.movies[movie.ID]
		if !ok || existing.DeletedAt != nil {
			return fmt.Errorf("update movie %s: %w", movie.ID, repository.ErrNotFound)
		}
		c := cloneMovie(movie)
		c.CreatedAt = existing.CreatedAt
		c.DeletedAt = nil
		st.movies[c.ID] = c
		return nil
	})
}

func (r *movieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.mutate(func(st *state) error {
		existing, ok := st.movies[id]
		if !ok || existing.DeletedAt != nil {
			return fmt.Errorf("delete movie %s: %w", id, repository.ErrNotFound)
		}
		now := time.Now()
		existing.DeletedAt = &now
		return nil
	})
}

func matchMovie(m *entity.Movie, filter repository.MovieFilter) bool {
	if m.DeletedAt != nil {
		return false
	}
	if q := strings.TrimSpace(filter.Query); q != "" &&
		!strings.Contains(strings.ToLower(m.Title), strings.ToLower(q)) {
		return false
	}
	if g := strings.TrimSpace(filter.Genre); g != "" {
		for _, genre := range m.Genres {
			if strings.EqualFold(genre, g) {
				return true
			}
		}
		return false
	}
	return true
}

func (r *movieRepo) filter(filter repository.MovieFilter) []*entity.Movie {
	var movies []*entity.Movie
	r.s.read(func(st *state) {
		for _, m := range st.movies {
			if matchMovie(m, filter) {
				movies = append(movies, cloneMovie(m))
			}
		}
	})
	return movies
}

// FindAll orders newest release first, undated movies last, then by title.
func (r *movieRepo) FindAll(ctx context.Context, filter repository.MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	movies := r.filter(filter)
	sort.Slice(movies, func(i, j int) bool {
		a, b := movies[i].ReleaseDate, movies[j].ReleaseDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return movies[i].Title < movies[j].Title
	})
	return page(movies, limit, offset), nil
}

func (r *movieRepo) CountAll(ctx context.Context, filter repository.MovieFilter) (int64, error) {
	return int64(len(r.filter(filter))), nil
}
