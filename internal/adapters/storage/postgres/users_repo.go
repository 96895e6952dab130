package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct {
	db *sqlx.DB
}

const userColumns = `id, username, password_hash, email, phone, real_name, avatar, role, is_active, created_at, updated_at`

type userRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	Email        sql.NullString `db:"email"`
	Phone        sql.NullString `db:"phone"`
	RealName     sql.NullString `db:"real_name"`
	Avatar       sql.NullString `db:"avatar"`
	Role         string         `db:"role"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toDomain() users.User {
	return users.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        strPtr(r.Email),
		Phone:        strPtr(r.Phone),
		RealName:     strPtr(r.RealName),
		Avatar:       strPtr(r.Avatar),
		Role:         authz.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *UserRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, email, phone, real_name, avatar, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, q,
		u.Username,
		u.PasswordHash,
		nullString(u.Email),
		nullString(u.Phone),
		nullString(u.RealName),
		nullString(u.Avatar),
		string(u.Role),
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return users.User{}, users.ErrUsernameTaken
		}
		return users.User{}, err
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	row, err := getByID[userRow](ctx, r.db, "users", userColumns, id)
	if err != nil {
		return users.User{}, err
	}
	return row.toDomain(), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND is_deleted = false`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}
	return row.toDomain(), nil
}

func (r *UserRepo) List(ctx context.Context, f users.ListFilter, p pagination.Params) ([]users.User, int64, error) {
	var w where
	if f.Username != "" {
		w.contains("username", f.Username)
	}
	if f.Role != "" {
		w.eq("role", string(f.Role))
	}

	rows, total, err := listPage[userRow](ctx, r.db, "users", userColumns, "created_at DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]users.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// Update no toca username, password_hash ni role.
func (r *UserRepo) Update(ctx context.Context, u users.User) error {
	const q = `
		UPDATE users
		SET email = $2, phone = $3, real_name = $4, avatar = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		u.ID,
		nullString(u.Email),
		nullString(u.Phone),
		nullString(u.RealName),
		nullString(u.Avatar),
		u.IsActive,
		u.UpdatedAt,
	))
}

func (r *UserRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "users", id, at)
}
