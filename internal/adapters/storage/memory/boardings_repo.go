package memory

import (
	"context"
	"time"

	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type boardingRepo struct {
	s *Store
}

func (r *boardingRepo) Create(_ context.Context, b boardings.Boarding) (boardings.Boarding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	taken := r.s.boardings.anyRow(func(existing boardings.Boarding, deleted bool) bool {
		return !deleted && existing.OrderID == b.OrderID
	})
	if taken {
		return boardings.Boarding{}, boardings.ErrOrderHasBoarding
	}

	b.ID = r.s.boardings.nextID()
	r.s.boardings.insert(b.ID, b)
	return b, nil
}

func (r *boardingRepo) GetByID(_ context.Context, id int64) (boardings.Boarding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.boardings.get(id)
	if !ok {
		return boardings.Boarding{}, apperr.ErrNotFound
	}
	return b, nil
}

func (r *boardingRepo) List(_ context.Context, f boardings.ListFilter, p pagination.Params) ([]boardings.Boarding, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.boardings.query(func(b boardings.Boarding) bool {
		if f.StaffID != nil && b.StaffID != *f.StaffID {
			return false
		}
		if f.PetID != nil && b.PetID != *f.PetID {
			return false
		}
		if f.OrderID != nil && b.OrderID != *f.OrderID {
			return false
		}
		if f.Status != "" && b.Status != f.Status {
			return false
		}
		if f.OwnerID != nil {
			owner, ok := r.s.petOwner(b.PetID)
			if !ok || owner != *f.OwnerID {
				return false
			}
		}
		return true
	}, func(a, b boardings.Boarding) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func (r *boardingRepo) Update(_ context.Context, b boardings.Boarding) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.boardings.get(b.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	b.OrderID = current.OrderID
	b.PetID = current.PetID
	b.CreatedAt = current.CreatedAt
	r.s.boardings.replace(b.ID, b)
	return nil
}

func (r *boardingRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.boardings.softDelete(id, func(b *boardings.Boarding) { b.UpdatedAt = at }), nil
}
