package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// where arma "WHERE is_deleted = false AND ..." con placeholders $n.
type where struct {
	clauses []string
	args    []any
}

func (w *where) next(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) eq(col string, v any) {
	w.clauses = append(w.clauses, col+" = "+w.next(v))
}

// contains: subcadena case-insensitive, escapando comodines del usuario.
func (w *where) contains(col, s string) {
	w.clauses = append(w.clauses, col+" ILIKE "+w.next("%"+escapeLike(s)+"%")+` ESCAPE '\'`)
}

// expr agrega una expresión con un único placeholder %s.
func (w *where) expr(format string, v any) {
	w.clauses = append(w.clauses, fmt.Sprintf(format, w.next(v)))
}

func (w *where) sql() string {
	parts := append([]string{"is_deleted = false"}, w.clauses...)
	return "WHERE " + strings.Join(parts, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// listPage ejecuta COUNT + SELECT paginado sobre table.
func listPage[R any](ctx context.Context, db sqlx.QueryerContext, table, columns, orderBy string, w where, p pagination.Params) ([]R, int64, error) {
	var total int64
	if err := sqlx.GetContext(ctx, db, &total, "SELECT COUNT(*) FROM "+table+" "+w.sql(), w.args...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	args := make([]any, 0, len(w.args)+2)
	args = append(args, w.args...)
	args = append(args, p.Limit(), p.Offset())
	q := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		columns, table, w.sql(), orderBy, len(w.args)+1, len(w.args)+2)

	var rows []R
	if err := sqlx.SelectContext(ctx, db, &rows, q, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func getByID[R any](ctx context.Context, db sqlx.QueryerContext, table, columns string, id int64) (R, error) {
	var row R
	err := sqlx.GetContext(ctx, db, &row, "SELECT "+columns+" FROM "+table+" WHERE id = $1 AND is_deleted = false", id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, apperr.ErrNotFound
	}
	return row, err
}

func softDelete(ctx context.Context, db sqlx.ExecerContext, table string, id int64, at time.Time) (bool, error) {
	res, err := db.ExecContext(ctx,
		"UPDATE "+table+" SET is_deleted = true, updated_at = $2 WHERE id = $1 AND is_deleted = false", id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
