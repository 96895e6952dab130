package boardings

import (
	"context"
	"errors"
	"time"

	"pet-care-management/internal/platform/pagination"
)

// ErrOrderHasBoarding: la orden ya tiene un hospedaje no eliminado.
var ErrOrderHasBoarding = errors.New("order already has a boarding")

type ListFilter struct {
	StaffID *int64
	PetID   *int64
	OrderID *int64
	// OwnerID restringe a mascotas de ese dueño (listados de owners).
	OwnerID *int64
	Status  Status
}

type Repository interface {
	Create(ctx context.Context, b Boarding) (Boarding, error)
	GetByID(ctx context.Context, id int64) (Boarding, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]Boarding, int64, error)
	Update(ctx context.Context, b Boarding) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
