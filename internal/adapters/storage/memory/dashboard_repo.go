package memory

import (
	"context"

	"pet-care-management/internal/domain/dashboard"
	"pet-care-management/internal/domain/orders"

	"github.com/shopspring/decimal"
)

type dashboardRepo struct {
	s *Store
}

func (r *dashboardRepo) Stats(_ context.Context) (dashboard.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st := dashboard.Stats{
		TotalUsers:   r.s.users.count(nil),
		TotalPets:    r.s.pets.count(nil),
		TotalOrders:  r.s.orders.count(nil),
		TotalRevenue: decimal.Zero,
		ActiveOrders: r.s.orders.count(func(o orders.Order) bool { return o.Status.Active() }),
	}
	for _, row := range r.s.orders.rows {
		if !row.deleted && row.val.Status == orders.StatusCompleted {
			st.TotalRevenue = st.TotalRevenue.Add(row.val.TotalAmount)
		}
	}
	return st, nil
}
