package catalog

import (
	"context"
	"time"

	"pet-care-management/internal/platform/pagination"
)

type ListFilter struct {
	Category    string
	IsAvailable *bool
}

type Repository interface {
	Create(ctx context.Context, s CareService) (CareService, error)
	GetByID(ctx context.Context, id int64) (CareService, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]CareService, int64, error)
	Update(ctx context.Context, s CareService) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
