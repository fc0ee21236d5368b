package pets

import (
	"context"
	"errors"

	"petcare-marketplace/internal/domain/apperr"
)

// OwnerOfActive expone el owner de una mascota activa.
// Se usa para evitar ciclos de imports (requests -> pets).
// Inactiva o inexistente => NotFound.
func (s *Service) OwnerOfActive(ctx context.Context, petID string) (string, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.NotFound("Pet not found")
		}
		return "", err
	}
	if !p.IsActive {
		return "", apperr.NotFound("Pet not found")
	}
	return p.OwnerID, nil
}
