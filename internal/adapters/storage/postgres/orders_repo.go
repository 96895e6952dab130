package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/platform/pagination"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct {
	db *sqlx.DB
}

const orderColumns = `id, order_no, user_id, pet_id, service_id, staff_id, appointment_time, status, total_amount, notes, created_at, updated_at`

type orderRow struct {
	ID              int64           `db:"id"`
	OrderNo         string          `db:"order_no"`
	UserID          int64           `db:"user_id"`
	PetID           int64           `db:"pet_id"`
	ServiceID       int64           `db:"service_id"`
	StaffID         sql.NullInt64   `db:"staff_id"`
	AppointmentTime sql.NullTime    `db:"appointment_time"`
	Status          string          `db:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Notes           sql.NullString  `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r orderRow) toDomain() orders.Order {
	return orders.Order{
		ID:              r.ID,
		OrderNo:         r.OrderNo,
		UserID:          r.UserID,
		PetID:           r.PetID,
		ServiceID:       r.ServiceID,
		StaffID:         int64Ptr(r.StaffID),
		AppointmentTime: timePtr(r.AppointmentTime),
		Status:          orders.Status(r.Status),
		TotalAmount:     r.TotalAmount,
		Notes:           strPtr(r.Notes),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// CreatePriced bloquea la fila del servicio (FOR SHARE) mientras copia el
// precio, así un cambio de precio concurrente no se cuela entre lectura e
// insert.
func (r *OrderRepo) CreatePriced(ctx context.Context, o orders.Order) (out orders.Order, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return orders.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var svc struct {
		Price       decimal.Decimal `db:"price"`
		IsAvailable bool            `db:"is_available"`
	}
	err = tx.GetContext(ctx, &svc,
		`SELECT price, is_available FROM services WHERE id = $1 AND is_deleted = false FOR SHARE`, o.ServiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, orders.ErrServiceNotFound
	}
	if err != nil {
		return orders.Order{}, err
	}
	if !svc.IsAvailable {
		return orders.Order{}, orders.ErrServiceUnavailable
	}
	o.TotalAmount = svc.Price

	const q = `
		INSERT INTO orders (order_no, user_id, pet_id, service_id, staff_id, appointment_time,
		                    status, total_amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err = tx.QueryRowContext(ctx, q,
		o.OrderNo,
		o.UserID,
		o.PetID,
		o.ServiceID,
		nullInt64(o.StaffID),
		nullTime(o.AppointmentTime),
		string(o.Status),
		o.TotalAmount,
		nullString(o.Notes),
		o.CreatedAt,
		o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err, "orders_order_no_key") {
			return orders.Order{}, orders.ErrDuplicateOrderNo
		}
		return orders.Order{}, err
	}

	if err = tx.Commit(); err != nil {
		return orders.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (orders.Order, error) {
	row, err := getByID[orderRow](ctx, r.db, "orders", orderColumns, id)
	if err != nil {
		return orders.Order{}, err
	}
	return row.toDomain(), nil
}

func (r *OrderRepo) List(ctx context.Context, f orders.ListFilter, p pagination.Params) ([]orders.Order, int64, error) {
	var w where
	if f.UserID != nil {
		w.eq("user_id", *f.UserID)
	}
	if f.PetID != nil {
		w.eq("pet_id", *f.PetID)
	}
	if f.Status != "" {
		w.eq("status", string(f.Status))
	}

	rows, total, err := listPage[orderRow](ctx, r.db, "orders", orderColumns, "created_at DESC, id DESC", w, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]orders.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// Update: order_no, user, pet, servicio y total son inmutables.
func (r *OrderRepo) Update(ctx context.Context, o orders.Order) error {
	const q = `
		UPDATE orders
		SET staff_id = $2, appointment_time = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = false`

	return mustAffect(r.db.ExecContext(ctx, q,
		o.ID,
		nullInt64(o.StaffID),
		nullTime(o.AppointmentTime),
		string(o.Status),
		nullString(o.Notes),
		o.UpdatedAt,
	))
}

func (r *OrderRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.db, "orders", id, at)
}
