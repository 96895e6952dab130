package healthrecords

import (
	"context"
	"strings"
	"time"

	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
)

const msgNotFound = "health record not found"

type PetLookup interface {
	Get(ctx context.Context, id int64) (pets.Pet, error)
}

type StaffChecker interface {
	RequireStaff(ctx context.Context, id int64, field string) error
}

type Service struct {
	repo  Repository
	pets  PetLookup
	staff StaffChecker
	now   func() time.Time
}

func NewService(repo Repository, p PetLookup, staff StaffChecker) *Service {
	return &Service{
		repo:  repo,
		pets:  p,
		staff: staff,
		now:   time.Now,
	}
}

type CreateInput struct {
	PetID        int64
	VetID        int64
	CheckDate    time.Time
	Type         Type
	Description  *string
	Diagnosis    *string
	Prescription *string
	Notes        *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	if in.PetID <= 0 {
		return Record{}, apperr.Validation("pet_id is required")
	}
	if in.VetID <= 0 {
		return Record{}, apperr.Validation("vet_id is required")
	}
	if in.CheckDate.IsZero() {
		return Record{}, apperr.Validation("check_date is required")
	}
	if !in.Type.Valid() {
		return Record{}, apperr.Validation("record_type must be one of checkup, treatment, vaccination, surgery")
	}

	if _, err := s.pets.Get(ctx, in.PetID); err != nil {
		return Record{}, err
	}
	if err := s.staff.RequireStaff(ctx, in.VetID, "vet_id"); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := Record{
		PetID:        in.PetID,
		VetID:        in.VetID,
		CheckDate:    in.CheckDate,
		Type:         in.Type,
		Description:  trimmed(in.Description),
		Diagnosis:    trimmed(in.Diagnosis),
		Prescription: trimmed(in.Prescription),
		Notes:        trimmed(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Record{}, apperr.Storage(err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, apperr.FromRepo(err, msgNotFound)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]Record, int64, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, 0, apperr.Validation("from must be before to")
	}
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	CheckDate    patch.Field[time.Time]
	Type         patch.Field[Type]
	Description  patch.Field[string]
	Diagnosis    patch.Field[string]
	Prescription patch.Field[string]
	Notes        patch.Field[string]
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	if in.CheckDate.Set && in.CheckDate.Null {
		return Record{}, apperr.Validation("check_date cannot be null")
	}
	if in.Type.Set && (in.Type.Null || !in.Type.Value.Valid()) {
		return Record{}, apperr.Validation("record_type must be one of checkup, treatment, vaccination, surgery")
	}

	in.CheckDate.Apply(&rec.CheckDate)
	in.Type.Apply(&rec.Type)
	in.Description.ApplyNullable(&rec.Description)
	in.Diagnosis.ApplyNullable(&rec.Diagnosis)
	in.Prescription.ApplyNullable(&rec.Prescription)
	in.Notes.ApplyNullable(&rec.Notes)
	rec.Description = trimmed(rec.Description)
	rec.Diagnosis = trimmed(rec.Diagnosis)
	rec.Prescription = trimmed(rec.Prescription)
	rec.Notes = trimmed(rec.Notes)
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, apperr.FromRepo(err, msgNotFound)
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
