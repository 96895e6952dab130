package pets

import (
	"context"
	"time"

	"pet-care-management/internal/platform/pagination"
)

type ListFilter struct {
	OwnerID *int64
	// Name filtra por subcadena (case-insensitive).
	Name    string
	Species string
	Gender  Gender
}

type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	// OwnerOf incluye mascotas eliminadas: la propiedad de registros
	// históricos (boardings, health records) se sigue resolviendo.
	OwnerOf(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]Pet, int64, error)
	Update(ctx context.Context, p Pet) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
