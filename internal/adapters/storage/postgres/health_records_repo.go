package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
)

type HealthRecordRepo struct {
	db *sqlx.DB
}

const recordColumns = `id, pet_id, vet_id, check_date, record_type, description, diagnosis, prescription, notes, created_at, updated_at`

type recordRow struct {
	ID           int64          `db:"id"`
	PetID        int64          `db:"pet_id"`
	VetID        int64          `db:"vet_id"`
	CheckDate    time.Time      `db:"check_date"`
	RecordType   string         `db:"record_type"`
	Description  sql.NullString `db:"description"`
	Diagnosis    sql.NullString `db:"diagnosis"`
	Prescription sql.NullString `db:"prescription"`
	Notes        sql.NullString `db:"notes"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r recordRow) toDomain() healthrecords.Record {
	return healthrecords.Record{
		ID:           r.ID,
		PetID:        r.PetID,
		VetID:        r.VetID,
		CheckDate:    r.CheckDate,
		Type:         healthrecords.Type(r.RecordType),
		Description:  strPtr(r.Description),
		Diagnosis:    strPtr(r.Diagnosis),
		Prescription: strPtr(r.Prescription),
		Notes:        strPtr(r.Notes),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *HealthRecordRepo) Create(ctx context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	const q = `
		INSERT INTO health_records (pet_id, vet_id, check_date, record_type, description,
		                            diagnosis, prescription, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, q,
		rec.PetID,
		rec.VetID,
		rec.CheckDate,
		string(rec.Type),
		nullString(rec.Description),
		nullString(rec.Diagnosis),
		nullString(rec.Prescription),
		nullString(rec.Notes),
		rec.CreatedAt,
		rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return healthrecords.Record{}, err
	}
	return rec, nil
}

func (r *HealthRecordRepo) GetByID(ctx context.Context, id int64) (healthrecords.Record, error) {
	row, err := getByID[recordRow](ctx, r.db, "health_records", recordColumns, id)
	if err != nil {
		return healthrecords.Record{}, err
	}
	return row.toDomain(), nil
}

func (r *HealthRecordRepo) List(ctx context.Context, f healthrecords.ListFilter, p pagination.Params) ([]healthrecords.Record, int64, error) {
	var w where
	if f.PetID != nil {
		w.eq("pet_id", *f.PetID)
	}
	if f.VetID != nil {
		w.eq("vet_id", *f.VetID)
	}
	if f.Type != "" {
		w.eq("record_type", string(f.Type))
	}
	if f.From != nil {
		w.expr("check_date >= %s", *f.From)
	}
	if f.To != nil {
		w.expr("check_date <= %s", *f.To)
	}
	if f.OwnerID != nil {
		w.expr("pet_id IN (SELECT id FROM pets WHERE owner_id = %s)", *f.OwnerID)
	}

	rows, total, err := listPage[recordRow](ctx, r.db, "health_records", recordColumns, "check_date DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]healthrecords.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *HealthRecordRepo) Update(ctx context.Context, rec healthrecords.Record) error {
	const q = `
		UPDATE health_records
		SET check_date = $2, record_type = $3, description = $4, diagnosis = $5,
		    prescription = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		rec.ID,
		rec.CheckDate,
		string(rec.Type),
		nullString(rec.Description),
		nullString(rec.Diagnosis),
		nullString(rec.Prescription),
		nullString(rec.Notes),
		rec.UpdatedAt,
	))
}

func (r *HealthRecordRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "health_records", id, at)
}
