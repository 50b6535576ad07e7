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

type cinemaRepo struct {
	s *Store
}

func (r *cinemaRepo) Create(ctx context.Context, cinema *entity.Cinema) error {
	return r.s.mutate(func(st *state) error {
		if _, exists := st.cinemas[cinema.ID]; exists {
			return fmt.Errorf("create cinema %s: %w", cinema.ID, repository.ErrDuplicate)
		}
		st.cinemas[cinema.ID] = cloneCinema(cinema)
		return nil
	})
}

func (r *cinemaRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error) {
	var cinema *entity.Cinema
	r.s.read(func(st *state) {
		if c, ok := st.cinemas[id]; ok && c.DeletedAt == nil {
			cinema = cloneCinema(c)
		}
	})
	return cinema, nil
}

func (r *cinemaRepo) filter(location string) []*entity.Cinema {
	loc := strings.ToLower(strings.TrimSpace(location))
	var cinemas []*entity.Cinema
	r.s.read(func(st *state) {
		for _, c := range st.cinemas {
			if c.DeletedAt != nil {
				continue
			}
			if loc != "" && !strings.Contains(strings.ToLower(c.Location), loc) {
				continue
			}
			cinemas = append(cinemas, cloneCinema(c))
		}
	})
	return cinemas
}

func (r *cinemaRepo) FindAll(ctx context.Context, location string, limit, offset int) ([]*entity.Cinema, error) {
	cinemas := r.filter(location)
	sort.Slice(cinemas, func(i, j int) bool { return cinemas[i].Name < cinemas[j].Name })
	return page(cinemas, limit, offset), nil
}

func (r *cinemaRepo) CountAll(ctx context.Context, location string) (int64, error) {
	return int64(len(r.filter(location))), nil
}

func (r *cinemaRepo) Update(ctx context.Context, cinema *entity.Cinema) error {
	return r.s.mutate(func(st *state) error {
		existing, ok := st.cinemas[cinema.ID]
		if !ok || existing.DeletedAt != nil {
			return fmt.Errorf("update cinema %s: %w", cinema.ID, repository.ErrNotFound)
		}
		c := cloneCinema(cinema)
		c.CreatedAt = existing.CreatedAt
		c.DeletedAt = nil
		st.cinemas[c.ID] = c
		return nil
	})
}

func (r *cinemaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.mutate(func(st *state) error {
		existing, ok := st.cinemas[id]
		if !ok || existing.DeletedAt != nil {
			return fmt.Errorf("delete cinema %s: %w", id, repository.ErrNotFound)
		}
		now := time.Now()
		existing.DeletedAt = &now
		return nil
	})
}
