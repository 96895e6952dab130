package orders

import (
	"context"
	"errors"
	"time"

	"pet-care-management/internal/platform/pagination"
)

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceUnavailable = errors.New("service is not available")
	ErrDuplicateOrderNo   = errors.New("duplicate order number")
)

type ListFilter struct {
	UserID *int64
	PetID  *int64
	Status Status
}

type Repository interface {
	// CreatePriced lee el precio del servicio y crea la orden de forma
	// atómica: TotalAmount = precio vigente. Errores: ErrServiceNotFound,
	// ErrServiceUnavailable, ErrDuplicateOrderNo.
	CreatePriced(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]Order, int64, error)
	Update(ctx context.Context, o Order) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
