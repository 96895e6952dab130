package memory

import (
	"context"
	"time"

	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
)

type petRepo struct {
	s *Store
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.pets.nextID()
	r.s.pets.insert(p.ID, p)
	return p, nil
}

func (r *petRepo) GetByID(_ context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets.get(id)
	if !ok {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) OwnerOf(_ context.Context, id int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets.getAny(id)
	if !ok {
		return 0, apperr.ErrNotFound
	}
	return p.OwnerID, nil
}

func (r *petRepo) List(_ context.Context, f pets.ListFilter, p pagination.Params) ([]pets.Pet, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items, total := r.s.pets.query(func(pet pets.Pet) bool {
		return matchPet(pet, f)
	}, func(a, b pets.Pet) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
	return items, total, nil
}

func matchPet(pet pets.Pet, f pets.ListFilter) bool {
	if f.OwnerID != nil && pet.OwnerID != *f.OwnerID {
		return false
	}
	if f.Name != "" && !containsFold(pet.Name, f.Name) {
		return false
	}
	if f.Species != "" && pet.Species != f.Species {
		return false
	}
	if f.Gender != "" && (pet.Gender == nil || *pet.Gender != f.Gender) {
		return false
	}
	return true
}

func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.pets.get(p.ID)
	if !ok {
		return apperr.ErrNotFound
	}
	p.OwnerID = current.OwnerID
	p.CreatedAt = current.CreatedAt
	r.s.pets.replace(p.ID, p)
	return nil
}

func (r *petRepo) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.pets.softDelete(id, func(p *pets.Pet) { p.UpdatedAt = at }), nil
}

// petOwner incluye mascotas eliminadas. Requiere lock.
func (s *Store) petOwner(petID int64) (int64, bool) {
	p, ok := s.pets.getAny(petID)
	if !ok {
		return 0, false
	}
	return p.OwnerID, true
}
