package pets

import (
	"context"

	"pet-care-management/internal/platform/apperr"
)

// OwnerOf expone el dueño de una mascota (aunque esté eliminada).
// Lo usan boardings y healthrecords para la regla de propiedad sin
// importar el resto del módulo.
func (s *Service) OwnerOf(ctx context.Context, petID int64) (int64, error) {
	id, err := s.repo.OwnerOf(ctx, petID)
	if err != nil {
		return 0, apperr.FromRepo(err, msgNotFound)
	}
	return id, nil
}
