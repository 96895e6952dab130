package memory

import (
	"context"
	"time"

	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type recordRepo struct {
	s *Store
}

func (r *recordRepo) Create(_ context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec.ID = r.s.records.nextID()
	r.s.records.insert(rec.ID, rec)
	return rec, nil
}

func (r *recordRepo) GetByID(_ context.Context, id int64) (healthrecords.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records.get(id)
	if !ok {
		return healthrecords.Record{}, apperr.ErrNotFound
	}
	return rec, nil
}

// List ordena por check_date desc.
func (r *recordRepo) List(_ context.Context, f healthrecords.ListFilter, p pagination.Params) ([]healthrecords.Record, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.records.query(func(rec healthrecords.Record) bool {
		if f.PetID != nil && rec.PetID != *f.PetID {
			return false
		}
		if f.VetID != nil && rec.VetID != *f.VetID {
			return false
		}
		if f.Type != "" && rec.Type != f.Type {
			return false
		}
		if f.From != nil && rec.CheckDate.Before(*f.From) {
			return false
		}
		if f.To != nil && rec.CheckDate.After(*f.To) {
			return false
		}
		if f.OwnerID != nil {
			owner, ok := r.s.petOwner(rec.PetID)
			if !ok || owner != *f.OwnerID {
				return false
			}
		}
		return true
	}, func(a, b healthrecords.Record) bool {
		return newestFirst(a.CheckDate, b.CheckDate, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func (r *recordRepo) Update(_ context.Context, rec healthrecords.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.records.get(rec.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	rec.PetID = current.PetID
	rec.VetID = current.VetID
	rec.CreatedAt = current.CreatedAt
	r.s.records.replace(rec.ID, rec)
	return nil
}

func (r *recordRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.records.softDelete(id, func(rec *healthrecords.Record) { rec.UpdatedAt = at }), nil
}
