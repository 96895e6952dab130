package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PetRepo struct {
	db *sqlx.DB
}

const petColumns = `id, owner_id, name, species, breed, gender, birth_date, weight, color, health_status, special_notes, avatar, created_at, updated_at`

type petRow struct {
	ID           int64               `db:"id"`
	OwnerID      int64               `db:"owner_id"`
	Name         string              `db:"name"`
	Species      string              `db:"species"`
	Breed        sql.NullString      `db:"breed"`
	Gender       sql.NullString      `db:"gender"`
	BirthDate    sql.NullTime        `db:"birth_date"`
	Weight       decimal.NullDecimal `db:"weight"`
	Color        sql.NullString      `db:"color"`
	HealthStatus sql.NullString      `db:"health_status"`
	SpecialNotes sql.NullString      `db:"special_notes"`
	Avatar       sql.NullString      `db:"avatar"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

func (r petRow) toDomain() pets.Pet {
	p := pets.Pet{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Species:      r.Species,
		Breed:        strPtr(r.Breed),
		BirthDate:    timePtr(r.BirthDate),
		Color:        strPtr(r.Color),
		HealthStatus: strPtr(r.HealthStatus),
		SpecialNotes: strPtr(r.SpecialNotes),
		Avatar:       strPtr(r.Avatar),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Gender.Valid {
		g := pets.Gender(r.Gender.String)
		p.Gender = &g
	}
	if r.Weight.Valid {
		w := r.Weight.Decimal
		p.Weight = &w
	}
	return p
}

func genderValue(g *pets.Gender) sql.NullString {
	if g == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*g), Valid: true}
}

func decimalValue(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// toNullDate guarda solo la parte de fecha (columna DATE).
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	y, m, d := t.Date()
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func (r *PetRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	const q = `
		INSERT INTO pets (owner_id, name, species, breed, gender, birth_date, weight, color,
		                  health_status, special_notes, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, q,
		p.OwnerID,
		p.Name,
		p.Species,
		nullString(p.Breed),
		genderValue(p.Gender),
		toNullDate(p.BirthDate),
		decimalValue(p.Weight),
		nullString(p.Color),
		nullString(p.HealthStatus),
		nullString(p.SpecialNotes),
		nullString(p.Avatar),
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row, err := getByID[petRow](ctx, r.db, "pets", petColumns, id)
	if err != nil {
		return pets.Pet{}, err
	}
	return row.toDomain(), nil
}

// OwnerOf no filtra is_deleted.
func (r *PetRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, `SELECT owner_id FROM pets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

func (r *PetRepo) List(ctx context.Context, f pets.ListFilter, p pagination.Params) ([]pets.Pet, int64, error) {
	var w where
	if f.OwnerID != nil {
		w.eq("owner_id", *f.OwnerID)
	}
	if f.Name != "" {
		w.contains("name", f.Name)
	}
	if f.Species != "" {
		w.eq("species", f.Species)
	}
	if f.Gender != "" {
		w.eq("gender", string(f.Gender))
	}

	rows, total, err := listPage[petRow](ctx, r.db, "pets", petColumns, "created_at DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *PetRepo) Update(ctx context.Context, p pets.Pet) error {
	const q = `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, gender = $5, birth_date = $6, weight = $7,
		    color = $8, health_status = $9, special_notes = $10, avatar = $11, updated_at = $12
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		p.ID,
		p.Name,
		p.Species,
		nullString(p.Breed),
		genderValue(p.Gender),
		toNullDate(p.BirthDate),
		decimalValue(p.Weight),
		nullString(p.Color),
		nullString(p.HealthStatus),
		nullString(p.SpecialNotes),
		nullString(p.Avatar),
		p.UpdatedAt,
	))
}

func (r *PetRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "pets", id, at)
}
