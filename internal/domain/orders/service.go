package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/metrics"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
	"pet-care-management/internal/platform/validate"
)

const (
	msgNotFound = "order not found"

	// maxOrderNoAttempts: reintentos ante colisión de order_no.
	maxOrderNoAttempts = 3
)

type PetLookup interface {
	Get(ctx context.Context, id int64) (pets.Pet, error)
}

type UserLookup interface {
	Get(ctx context.Context, id int64) (users.User, error)
	RequireStaff(ctx context.Context, id int64, field string) error
}

type Service struct {
	repo    Repository
	pets    PetLookup
	users   UserLookup
	now     func() time.Time
	orderNo func(time.Time) string
}

func NewService(repo Repository, p PetLookup, u UserLookup) *Service {
	return &Service{
		repo:    repo,
		pets:    p,
		users:   u,
		now:     time.Now,
		orderNo: GenerateOrderNo,
	}
}

// GenerateOrderNo arma "ORD" + yyyyMMddHHmmss + 4 dígitos aleatorios.
func GenerateOrderNo(now time.Time) string {
	return fmt.Sprintf("ORD%s%04d", now.Format("20060102150405"), rand.IntN(10000))
}

type CreateInput struct {
	UserID          int64
	PetID           int64
	ServiceID       int64
	AppointmentTime *time.Time
	Notes           *string `json:"notes" validate:"omitempty,max=1000"`
}

// Create valida user/pet, y delega en el repo el precio + insert atómico.
// Status inicial siempre pending.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if err := validate.Struct(in); err != nil {
		return Order{}, err
	}
	if in.UserID <= 0 {
		return Order{}, apperr.Validation("user_id is required")
	}
	if in.PetID <= 0 {
		return Order{}, apperr.Validation("pet_id is required")
	}
	if in.ServiceID <= 0 {
		return Order{}, apperr.Validation("service_id is required")
	}

	if _, err := s.users.Get(ctx, in.UserID); err != nil {
		return Order{}, err
	}
	pet, err := s.pets.Get(ctx, in.PetID)
	if err != nil {
		return Order{}, err
	}
	if pet.OwnerID != in.UserID {
		return Order{}, apperr.Validation("pet does not belong to user")
	}

	now := s.now()
	o := Order{
		UserID:          in.UserID,
		PetID:           in.PetID,
		ServiceID:       in.ServiceID,
		AppointmentTime: in.AppointmentTime,
		Status:          StatusPending,
		Notes:           trimmed(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for attempt := 1; attempt <= maxOrderNoAttempts; attempt++ {
		o.OrderNo = s.orderNo(now)
		created, err := s.repo.CreatePriced(ctx, o)
		switch {
		case err == nil:
			metrics.ObserveOrderCreated()
			return created, nil
		case errors.Is(err, ErrDuplicateOrderNo):
			logger.FromContext(ctx).Warn("order number collision", map[string]any{
				"order_no": o.OrderNo,
				"attempt":  attempt,
			})
			continue
		case errors.Is(err, ErrServiceNotFound):
			return Order{}, apperr.NotFound("service not found")
		case errors.Is(err, ErrServiceUnavailable):
			return Order{}, apperr.Validation("service is not available")
		default:
			return Order{}, apperr.Storage(err)
		}
	}
	return Order{}, apperr.Storage(fmt.Errorf("allocate order number: %w", ErrDuplicateOrderNo))
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, apperr.FromRepo(err, msgNotFound)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]Order, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status")
	}
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	StaffID         patch.Field[int64]
	Status          patch.Field[Status]
	AppointmentTime patch.Field[time.Time]
	Notes           patch.Field[string]
}

// RequiresManage: cambios que solo el personal puede hacer (asignar staff o
// mover el estado a algo distinto de cancelled).
func (in UpdateInput) RequiresManage() bool {
	if in.StaffID.Set {
		return true
	}
	return in.Status.HasValue() && in.Status.Value != StatusCancelled
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	if in.Status.Set {
		if in.Status.Null || !in.Status.Value.Valid() {
			return Order{}, apperr.Validation("status must be one of pending, confirmed, in_progress, completed, cancelled")
		}
	}
	if in.StaffID.HasValue() {
		if err := s.users.RequireStaff(ctx, in.StaffID.Value, "staff_id"); err != nil {
			return Order{}, err
		}
	}
	if in.Notes.HasValue() {
		if err := validate.Var("notes", in.Notes.Value, "max=1000"); err != nil {
			return Order{}, err
		}
	}

	in.StaffID.ApplyNullable(&o.StaffID)
	in.Status.Apply(&o.Status)
	in.AppointmentTime.ApplyNullable(&o.AppointmentTime)
	in.Notes.ApplyNullable(&o.Notes)
	o.Notes = trimmed(o.Notes)
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Order{}, apperr.FromRepo(err, msgNotFound)
	}
	return o, nil
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
