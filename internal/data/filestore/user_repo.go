package filestore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/data/repository"

	"github.com/google/uuid"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	email := strings.ToLower(user.Email)
	return r.s.mutate(func(st *state) error {
		if _, exists := st.emails[email]; exists {
			return fmt.Errorf("create user %s: %w", user.Email, repository.ErrDuplicate)
		}
		if _, exists := st.users[user.ID]; exists {
			return fmt.Errorf("create user %s: %w", user.ID, repository.ErrDuplicate)
		}
		c := cloneUser(user)
		c.Email = email
		st.users[c.ID] = c
		st.emails[email] = c.ID
		return nil
	})
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user *entity.User
	r.s.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			user = cloneUser(u)
		}
	})
	return user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user *entity.User
	r.s.read(func(st *state) {
		if id, ok := st.emails[strings.ToLower(email)]; ok {
			user = cloneUser(st.users[id])
		}
	})
	return user, nil
}

func (r *userRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var users []*entity.User
	r.s.read(func(st *state) {
		for _, u := range st.users {
			users = append(users, cloneUser(u))
		}
	})
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, limit, offset), nil
}

func (r *userRepo) CountAll(ctx context.Context) (int64, error) {
	var total int64
	r.s.read(func(st *state) { total = int64(len(st.users)) })
	return total, nil
}

// Update rewrites everything except the email, matching the SQL driver.
func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	return r.s.mutate(func(st *state) error {
		existing, ok := st.users[user.ID]
		if !ok {
			return fmt.Errorf("update user %s: %w", user.ID, repository.ErrNotFound)
		}
		c := cloneUser(user)
		c.Email = existing.Email
		c.CreatedAt = existing.CreatedAt
		st.users[c.ID] = c
		return nil
	})
}
