package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ServiceRepo struct {
	db *sqlx.DB
}

const serviceColumns = `id, name, description, category, price, duration, image, is_available, created_at, updated_at`

type serviceRow struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	Duration    sql.NullInt64   `db:"duration"`
	Image       sql.NullString  `db:"image"`
	IsAvailable bool            `db:"is_available"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r serviceRow) toDomain() catalog.CareService {
	cs := catalog.CareService{
		ID:          r.ID,
		Name:        r.Name,
		Description: strPtr(r.Description),
		Category:    r.Category,
		Price:       r.Price,
		Image:       strPtr(r.Image),
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Duration.Valid {
		d := int(r.Duration.Int64)
		cs.Duration = &d
	}
	return cs
}

func durationValue(d *int) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*d), Valid: true}
}

func (r *ServiceRepo) Create(ctx context.Context, s catalog.CareService) (catalog.CareService, error) {
	const q = `
		INSERT INTO services (name, description, category, price, duration, image, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, q,
		s.Name,
		nullString(s.Description),
		s.Category,
		s.Price,
		durationValue(s.Duration),
		nullString(s.Image),
		s.IsAvailable,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return catalog.CareService{}, err
	}
	return s, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (catalog.CareService, error) {
	row, err := getByID[serviceRow](ctx, r.db, "services", serviceColumns, id)
	if err != nil {
		return catalog.CareService{}, err
	}
	return row.toDomain(), nil
}

func (r *ServiceRepo) List(ctx context.Context, f catalog.ListFilter, p pagination.Params) ([]catalog.CareService, int64, error) {
	var w where
	if f.Category != "" {
		w.eq("category", f.Category)
	}
	if f.IsAvailable != nil {
		w.eq("is_available", *f.IsAvailable)
	}

	rows, total, err := listPage[serviceRow](ctx, r.db, "services", serviceColumns, "created_at DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]catalog.CareService, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s catalog.CareService) error {
	const q = `
		UPDATE services
		SET name = $2, description = $3, category = $4, price = $5, duration = $6,
		    image = $7, is_available = $8, updated_at = $9
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		s.ID,
		s.Name,
		nullString(s.Description),
		s.Category,
		s.Price,
		durationValue(s.Duration),
		nullString(s.Image),
		s.IsAvailable,
		s.UpdatedAt,
	))
}

func (r *ServiceRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "services", id, at)
}
