package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
)

type BoardingRepo struct {
	db *sqlx.DB
}

const boardingColumns = `id, order_id, pet_id, staff_id, start_date, end_date, status, daily_notes, food_type, feeding_schedule, created_at, updated_at`

type boardingRow struct {
	ID              int64          `db:"id"`
	OrderID         int64          `db:"order_id"`
	PetID           int64          `db:"pet_id"`
	StaffID         int64          `db:"staff_id"`
	StartDate       time.Time      `db:"start_date"`
	EndDate         time.Time      `db:"end_date"`
	Status          string         `db:"status"`
	DailyNotes      sql.NullString `db:"daily_notes"`
	FoodType        sql.NullString `db:"food_type"`
	FeedingSchedule sql.NullString `db:"feeding_schedule"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r boardingRow) toDomain() boardings.Boarding {
	return boardings.Boarding{
		ID:              r.ID,
		OrderID:         r.OrderID,
		PetID:           r.PetID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Status:          boardings.Status(r.Status),
		DailyNotes:      strPtr(r.DailyNotes),
		FoodType:        strPtr(r.FoodType),
		FeedingSchedule: strPtr(r.FeedingSchedule),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r *BoardingRepo) Create(ctx context.Context, b boardings.Boarding) (boardings.Boarding, error) {
	const q = `
		INSERT INTO boardings (order_id, pet_id, staff_id, start_date, end_date, status,
		                       daily_notes, food_type, feeding_schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, q,
		b.OrderID,
		b.PetID,
		b.StaffID,
		b.StartDate,
		b.EndDate,
		string(b.Status),
		nullString(b.DailyNotes),
		nullString(b.FoodType),
		nullString(b.FeedingSchedule),
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err, "boardings_order_active_key") {
			return boardings.Boarding{}, boardings.ErrOrderHasBoarding
		}
		return boardings.Boarding{}, err
	}
	return b, nil
}

func (r *BoardingRepo) GetByID(ctx context.Context, id int64) (boardings.Boarding, error) {
	row, err := getByID[boardingRow](ctx, r.db, "boardings", boardingColumns, id)
	if err != nil {
		return boardings.Boarding{}, err
	}
	return row.toDomain(), nil
}

func (r *BoardingRepo) List(ctx context.Context, f boardings.ListFilter, p pagination.Params) ([]boardings.Boarding, int64, error) {
	var w where
	if f.StaffID != nil {
		w.eq("staff_id", *f.StaffID)
	}
	if f.PetID != nil {
		w.eq("pet_id", *f.PetID)
	}
	if f.OrderID != nil {
		w.eq("order_id", *f.OrderID)
	}
	if f.Status != "" {
		w.eq("status", string(f.Status))
	}
	if f.OwnerID != nil {
		w.expr("pet_id IN (SELECT id FROM pets WHERE owner_id = %s)", *f.OwnerID)
	}

	rows, total, err := listPage[boardingRow](ctx, r.db, "boardings", boardingColumns, "created_at DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]boardings.Boarding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// Update: order y pet quedan fijos.
func (r *BoardingRepo) Update(ctx context.Context, b boardings.Boarding) error {
	const q = `
		UPDATE boardings
		SET staff_id = $2, start_date = $3, end_date = $4, status = $5,
		    daily_notes = $6, food_type = $7, feeding_schedule = $8, updated_at = $9
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		b.ID,
		b.StaffID,
		b.StartDate,
		b.EndDate,
		string(b.Status),
		nullString(b.DailyNotes),
		nullString(b.FoodType),
		nullString(b.FeedingSchedule),
		b.UpdatedAt,
	))
}

func (r *BoardingRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "boardings", id, at)
}
