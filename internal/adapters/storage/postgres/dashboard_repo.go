package postgres

import (
	"context"

	"pet-care-management/internal/domain/dashboard"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type DashboardRepo struct {
	db *sqlx.DB
}

const statsQuery = `
	SELECT
		(SELECT COUNT(*) FROM users WHERE is_deleted = false) AS total_users,
		(SELECT COUNT(*) FROM pets WHERE is_deleted = false) AS total_pets,
		(SELECT COUNT(*) FROM orders WHERE is_deleted = false) AS total_orders,
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders
		  WHERE is_deleted = false AND status = 'completed') AS total_revenue,
		(SELECT COUNT(*) FROM orders
		  WHERE is_deleted = false AND status IN ('confirmed', 'in_progress')) AS active_orders`

type statsRow struct {
	TotalUsers   int64           `db:"total_users"`
	TotalPets    int64           `db:"total_pets"`
	TotalOrders  int64           `db:"total_orders"`
	TotalRevenue decimal.Decimal `db:"total_revenue"`
	ActiveOrders int64           `db:"active_orders"`
}

func (r *DashboardRepo) Stats(ctx context.Context) (dashboard.Stats, error) {
	var row statsRow
	if err := r.db.GetContext(ctx, &row, statsQuery); err != nil {
		return dashboard.Stats{}, err
	}
	return dashboard.Stats{
		TotalUsers:   row.TotalUsers,
		TotalPets:    row.TotalPets,
		TotalOrders:  row.TotalOrders,
		TotalRevenue: row.TotalRevenue,
		ActiveOrders: row.ActiveOrders,
	}, nil
}
