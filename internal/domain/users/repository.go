package users

import (
	"context"
	"errors"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/platform/pagination"
)

// ErrUsernameTaken lo devuelve Create ante una violación de unicidad.
var ErrUsernameTaken = errors.New("username already exists")

type ListFilter struct {
	// Username filtra por subcadena (case-insensitive).
	Username string
	Role     authz.Role
}

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]User, int64, error)
	Update(ctx context.Context, u User) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
