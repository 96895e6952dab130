package pets

import (
	"context"
	"strings"
	"time"

	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
	"pet-care-management/internal/platform/validate"

	"github.com/shopspring/decimal"
)

const msgNotFound = "pet not found"

// UserLookup valida que el dueño exista.
type UserLookup interface {
	Get(ctx context.Context, id int64) (users.User, error)
}

type Service struct {
	repo  Repository
	users UserLookup
	now   func() time.Time
}

func NewService(repo Repository, u UserLookup) *Service {
	return &Service{
		repo:  repo,
		users: u,
		now:   time.Now,
	}
}

type CreateInput struct {
	OwnerID      int64
	Name         string `json:"name" validate:"required,max=50"`
	Species      string `json:"species" validate:"required,max=20"`
	Breed        *string
	Gender       *Gender
	BirthDate    *time.Time
	Weight       *decimal.Decimal
	Color        *string
	HealthStatus *string
	SpecialNotes *string
	Avatar       *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	if err := validate.Struct(in); err != nil {
		return Pet{}, err
	}
	if in.OwnerID <= 0 {
		return Pet{}, apperr.Validation("owner_id is required")
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return Pet{}, apperr.Validation("gender must be male or female")
	}
	if err := checkWeight(in.Weight); err != nil {
		return Pet{}, err
	}
	if _, err := s.users.Get(ctx, in.OwnerID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return Pet{}, apperr.NotFound("owner not found")
		}
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		Species:      in.Species,
		Breed:        trimmed(in.Breed),
		Gender:       in.Gender,
		BirthDate:    in.BirthDate,
		Weight:       in.Weight,
		Color:        trimmed(in.Color),
		HealthStatus: trimmed(in.HealthStatus),
		SpecialNotes: trimmed(in.SpecialNotes),
		Avatar:       trimmed(in.Avatar),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, apperr.Storage(err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, apperr.FromRepo(err, msgNotFound)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]Pet, int64, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Species = strings.TrimSpace(f.Species)
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	Name         patch.Field[string]
	Species      patch.Field[string]
	Breed        patch.Field[string]
	Gender       patch.Field[Gender]
	BirthDate    patch.Field[time.Time]
	Weight       patch.Field[decimal.Decimal]
	Color        patch.Field[string]
	HealthStatus patch.Field[string]
	SpecialNotes patch.Field[string]
	Avatar       patch.Field[string]
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Pet, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name.Set {
		if in.Name.Null || strings.TrimSpace(in.Name.Value) == "" {
			return Pet{}, apperr.Validation("name cannot be empty")
		}
		if err := validate.Var("name", in.Name.Value, "max=50"); err != nil {
			return Pet{}, err
		}
	}
	if in.Species.Set {
		if in.Species.Null || strings.TrimSpace(in.Species.Value) == "" {
			return Pet{}, apperr.Validation("species cannot be empty")
		}
		if err := validate.Var("species", in.Species.Value, "max=20"); err != nil {
			return Pet{}, err
		}
	}
	if in.Gender.HasValue() && !in.Gender.Value.Valid() {
		return Pet{}, apperr.Validation("gender must be male or female")
	}
	if in.Weight.HasValue() {
		if err := checkWeight(&in.Weight.Value); err != nil {
			return Pet{}, err
		}
	}

	if in.Name.HasValue() {
		p.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Species.HasValue() {
		p.Species = strings.TrimSpace(in.Species.Value)
	}
	in.Breed.ApplyNullable(&p.Breed)
	in.Gender.ApplyNullable(&p.Gender)
	in.BirthDate.ApplyNullable(&p.BirthDate)
	in.Weight.ApplyNullable(&p.Weight)
	in.Color.ApplyNullable(&p.Color)
	in.HealthStatus.ApplyNullable(&p.HealthStatus)
	in.SpecialNotes.ApplyNullable(&p.SpecialNotes)
	in.Avatar.ApplyNullable(&p.Avatar)
	p.Breed = trimmed(p.Breed)
	p.Color = trimmed(p.Color)
	p.HealthStatus = trimmed(p.HealthStatus)
	p.SpecialNotes = trimmed(p.SpecialNotes)
	p.Avatar = trimmed(p.Avatar)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, apperr.FromRepo(err, msgNotFound)
	}
	return p, nil
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

func checkWeight(w *decimal.Decimal) error {
	if w == nil {
		return nil
	}
	if w.IsNegative() {
		return apperr.Validation("weight must be >= 0")
	}
	if w.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return apperr.Validation("weight must be < 1000")
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
