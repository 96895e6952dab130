package memory

import (
	"context"
	"time"

	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type serviceRepo struct {
	s *Store
}

func (r *serviceRepo) Create(_ context.Context, cs catalog.CareService) (catalog.CareService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cs.ID = r.s.services.nextID()
	r.s.services.insert(cs.ID, cs)
	return cs, nil
}

func (r *serviceRepo) GetByID(_ context.Context, id int64) (catalog.CareService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cs, ok := r.s.services.get(id)
	if !ok {
		return catalog.CareService{}, apperr.ErrNotFound
	}
	return cs, nil
}

func (r *serviceRepo) List(_ context.Context, f catalog.ListFilter, p pagination.Params) ([]catalog.CareService, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.services.query(func(cs catalog.CareService) bool {
		if f.Category != "" && cs.Category != f.Category {
			return false
		}
		if f.IsAvailable != nil && cs.IsAvailable != *f.IsAvailable {
			return false
		}
		return true
	}, func(a, b catalog.CareService) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func (r *serviceRepo) Update(_ context.Context, cs catalog.CareService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.services.get(cs.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	cs.CreatedAt = current.CreatedAt
	r.s.services.replace(cs.ID, cs)
	return nil
}

func (r *serviceRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.services.softDelete(id, func(cs *catalog.CareService) { cs.UpdatedAt = at }), nil
}
