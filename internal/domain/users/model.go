package users

import (
	"time"

	"pet-care-management/internal/authz"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        *string
	Phone        *string
	RealName     *string
	Avatar       *string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
