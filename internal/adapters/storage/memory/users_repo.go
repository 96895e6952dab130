package memory

import (
	"context"
	"strings"
	"time"

	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, u users.User) (users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// username único entre todas las filas, eliminadas incluidas.
	taken := r.s.users.anyRow(func(existing users.User, _ bool) bool {
		return existing.Username == u.Username
	})
	if taken {
		return users.User{}, users.ErrUsernameTaken
	}

	u.ID = r.s.users.nextID()
	r.s.users.insert(u.ID, u)
	return u, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, _ := r.s.users.query(func(u users.User) bool {
		return u.Username == username
	}, func(a, b users.User) bool { return a.ID < b.ID }, pagination.Params{Page: 1, Size: 1})
	if len(items) == 0 {
		return users.User{}, apperr.ErrNotFound
	}
	return items[0], nil
}

func (r *userRepo) List(_ context.Context, f users.ListFilter, p pagination.Params) ([]users.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.users.query(func(u users.User) bool {
		if f.Username != "" && !containsFold(u.Username, f.Username) {
			return false
		}
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		return true
	}, func(a, b users.User) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func (r *userRepo) Update(_ context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users.get(u.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	// username, hash y rol no se tocan por esta vía.
	u.Username = current.Username
	u.PasswordHash = current.PasswordHash
	u.Role = current.Role
	u.CreatedAt = current.CreatedAt
	r.s.users.replace(u.ID, u)
	return nil
}

func (r *userRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.users.softDelete(id, func(u *users.User) { u.UpdatedAt = at }), nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
