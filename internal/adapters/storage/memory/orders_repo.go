package memory

import (
	"context"
	"time"

	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type orderRepo struct {
	s *Store
}

// CreatePriced lee el precio y crea la orden bajo el mismo lock.
func (r *orderRepo) CreatePriced(_ context.Context, o orders.Order) (orders.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	svc, ok := r.s.services.get(o.ServiceID)
	if !ok {
		return orders.Order{}, orders.ErrServiceNotFound
	}
	if !svc.IsAvailable {
		return orders.Order{}, orders.ErrServiceUnavailable
	}
	dup := r.s.orders.anyRow(func(existing orders.Order, _ bool) bool {
		return existing.OrderNo == o.OrderNo
	})
	if dup {
		return orders.Order{}, orders.ErrDuplicateOrderNo
	}

	o.TotalAmount = svc.Price
	o.ID = r.s.orders.nextID()
	r.s.orders.insert(o.ID, o)
	return o, nil
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (orders.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders.get(id)
	if !ok {
		return orders.Order{}, apperr.ErrNotFound
	}
	return o, nil
}

func (r *orderRepo) List(_ context.Context, f orders.ListFilter, p pagination.Params) ([]orders.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.orders.query(func(o orders.Order) bool {
		if f.UserID != nil && o.UserID != *f.UserID {
			return false
		}
		if f.PetID != nil && o.PetID != *f.PetID {
			return false
		}
		if f.Status != "" && o.Status != f.Status {
			return false
		}
		return true
	}, func(a, b orders.Order) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func (r *orderRepo) Update(_ context.Context, o orders.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.orders.get(o.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	// Inmutables tras la creación.
	o.OrderNo = current.OrderNo
	o.UserID = current.UserID
	o.PetID = current.PetID
	o.ServiceID = current.ServiceID
	o.TotalAmount = current.TotalAmount
	o.CreatedAt = current.CreatedAt
	r.s.orders.replace(o.ID, o)
	return nil
}

func (r *orderRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.orders.softDelete(id, func(o *orders.Order) { o.UpdatedAt = at }), nil
}
