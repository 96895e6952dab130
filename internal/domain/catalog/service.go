package catalog

import (
	"context"
	"strings"
	"time"

	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
	"pet-care-management/internal/platform/validate"

	"github.com/shopspring/decimal"
)

const msgNotFound = "service not found"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required,max=50"`
	Price       decimal.Decimal
	Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
	// IsAvailable nil => true.
	IsAvailable *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (CareService, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validate.Struct(in); err != nil {
		return CareService{}, err
	}
	price, err := checkPrice(in.Price)
	if err != nil {
		return CareService{}, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	now := s.now()
	cs := CareService{
		Name:        in.Name,
		Description: trimmed(in.Description),
		Category:    in.Category,
		Price:       price,
		Duration:    in.Duration,
		Image:       trimmed(in.Image),
		IsAvailable: available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, cs)
	if err != nil {
		return CareService{}, apperr.Storage(err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (CareService, error) {
	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CareService{}, apperr.FromRepo(err, msgNotFound)
	}
	return cs, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]CareService, int64, error) {
	f.Category = strings.TrimSpace(f.Category)
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	Name        patch.Field[string]
	Description patch.Field[string]
	Category    patch.Field[string]
	Price       patch.Field[decimal.Decimal]
	Duration    patch.Field[int]
	Image       patch.Field[string]
	IsAvailable patch.Field[bool]
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (CareService, error) {
	cs, err := s.Get(ctx, id)
	if err != nil {
		return CareService{}, err
	}

	if in.Name.Set {
		if in.Name.Null || strings.TrimSpace(in.Name.Value) == "" {
			return CareService{}, apperr.Validation("name cannot be empty")
		}
		cs.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Category.Set {
		if in.Category.Null || strings.TrimSpace(in.Category.Value) == "" {
			return CareService{}, apperr.Validation("category cannot be empty")
		}
		cs.Category = strings.TrimSpace(in.Category.Value)
	}
	if in.Price.Set {
		if in.Price.Null {
			return CareService{}, apperr.Validation("price cannot be null")
		}
		price, err := checkPrice(in.Price.Value)
		if err != nil {
			return CareService{}, err
		}
		cs.Price = price
	}
	if in.Duration.HasValue() && in.Duration.Value < 0 {
		return CareService{}, apperr.Validation("duration must be >= 0")
	}
	if in.IsAvailable.Set && in.IsAvailable.Null {
		return CareService{}, apperr.Validation("is_available cannot be null")
	}
	if err := validate.Var("name", cs.Name, "max=100"); err != nil {
		return CareService{}, err
	}
	if err := validate.Var("category", cs.Category, "max=50"); err != nil {
		return CareService{}, err
	}

	in.Description.ApplyNullable(&cs.Description)
	in.Duration.ApplyNullable(&cs.Duration)
	in.Image.ApplyNullable(&cs.Image)
	in.IsAvailable.Apply(&cs.IsAvailable)
	cs.Description = trimmed(cs.Description)
	cs.Image = trimmed(cs.Image)
	cs.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, cs); err != nil {
		return CareService{}, apperr.FromRepo(err, msgNotFound)
	}
	return cs, nil
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

// checkPrice exige price > 0 con a lo sumo 2 decimales.
func checkPrice(p decimal.Decimal) (decimal.Decimal, error) {
	if !p.IsPositive() {
		return decimal.Decimal{}, apperr.Validation("price must be > 0")
	}
	if !p.Equal(p.Round(2)) {
		return decimal.Decimal{}, apperr.Validation("price must have at most 2 decimal places")
	}
	return p.Round(2), nil
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
