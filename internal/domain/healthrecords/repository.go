package healthrecords

import (
	"context"
	"time"

	"pet-care-management/internal/platform/pagination"
)

type ListFilter struct {
	PetID   *int64
	VetID   *int64
	OwnerID *int64
	Type    Type
	// From/To acotan check_date (inclusive).
	From *time.Time
	To   *time.Time
}

// Repository ordena por check_date desc (más reciente primero).
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]Record, int64, error)
	Update(ctx context.Context, rec Record) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
