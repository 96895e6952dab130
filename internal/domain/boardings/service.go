package boardings

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
)

const msgNotFound = "boarding not found"

type OrderLookup interface {
	Get(ctx context.Context, id int64) (orders.Order, error)
}

type PetLookup interface {
	Get(ctx context.Context, id int64) (pets.Pet, error)
}

type StaffChecker interface {
	RequireStaff(ctx context.Context, id int64, field string) error
}

type Service struct {
	repo   Repository
	orders OrderLookup
	pets   PetLookup
	staff  StaffChecker
	now    func() time.Time
}

func NewService(repo Repository, o OrderLookup, p PetLookup, staff StaffChecker) *Service {
	return &Service{
		repo:   repo,
		orders: o,
		pets:   p,
		staff:  staff,
		now:    time.Now,
	}
}

type CreateInput struct {
	OrderID         int64
	PetID           int64
	StaffID         int64
	StartDate       time.Time
	EndDate         time.Time
	DailyNotes      *string
	FoodType        *string
	FeedingSchedule *string
}

// Create: la orden y la mascota deben existir y coincidir, staff debe ser
// personal, start < end, y una orden tiene a lo sumo un hospedaje.
func (s *Service) Create(ctx context.Context, in CreateInput) (Boarding, error) {
	if in.OrderID <= 0 || in.PetID <= 0 || in.StaffID <= 0 {
		return Boarding{}, apperr.Validation("order_id, pet_id and staff_id are required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Boarding{}, apperr.Validation("start_date and end_date are required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return Boarding{}, apperr.Validation("start_date must be before end_date")
	}

	o, err := s.orders.Get(ctx, in.OrderID)
	if err != nil {
		return Boarding{}, err
	}
	if _, err := s.pets.Get(ctx, in.PetID); err != nil {
		return Boarding{}, err
	}
	if o.PetID != in.PetID {
		return Boarding{}, apperr.Validation("pet_id does not match the order")
	}
	if err := s.staff.RequireStaff(ctx, in.StaffID, "staff_id"); err != nil {
		return Boarding{}, err
	}

	now := s.now()
	b := Boarding{
		OrderID:         in.OrderID,
		PetID:           in.PetID,
		StaffID:         in.StaffID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Status:          StatusScheduled,
		DailyNotes:      trimmed(in.DailyNotes),
		FoodType:        trimmed(in.FoodType),
		FeedingSchedule: trimmed(in.FeedingSchedule),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		if errors.Is(err, ErrOrderHasBoarding) {
			return Boarding{}, apperr.Conflict("order already has a boarding")
		}
		return Boarding{}, apperr.Storage(err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Boarding, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Boarding{}, apperr.FromRepo(err, msgNotFound)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]Boarding, int64, error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	Status          patch.Field[Status]
	StartDate       patch.Field[time.Time]
	EndDate         patch.Field[time.Time]
	DailyNotes      patch.Field[string]
	FoodType        patch.Field[string]
	FeedingSchedule patch.Field[string]
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Boarding, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return Boarding{}, err
	}

	if in.Status.Set && (in.Status.Null || !in.Status.Value.Valid()) {
		return Boarding{}, apperr.Validation("status must be one of scheduled, in_progress, completed, cancelled")
	}
	if (in.StartDate.Set && in.StartDate.Null) || (in.EndDate.Set && in.EndDate.Null) {
		return Boarding{}, apperr.Validation("start_date and end_date cannot be null")
	}

	in.Status.Apply(&b.Status)
	in.StartDate.Apply(&b.StartDate)
	in.EndDate.Apply(&b.EndDate)
	if !b.StartDate.Before(b.EndDate) {
		return Boarding{}, apperr.Validation("start_date must be before end_date")
	}
	in.DailyNotes.ApplyNullable(&b.DailyNotes)
	in.FoodType.ApplyNullable(&b.FoodType)
	in.FeedingSchedule.ApplyNullable(&b.FeedingSchedule)
	b.DailyNotes = trimmed(b.DailyNotes)
	b.FoodType = trimmed(b.FoodType)
	b.FeedingSchedule = trimmed(b.FeedingSchedule)
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Boarding{}, apperr.FromRepo(err, msgNotFound)
	}
	return b, nil
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
