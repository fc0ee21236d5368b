package profiles

import "context"

type Repository interface {
	// Create devuelve apperr.ErrDuplicate si ya existe un perfil con ese id.
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
}
