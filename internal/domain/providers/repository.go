package providers

import "context"

type Repository interface {
	// Create devuelve apperr.ErrDuplicate si el perfil ya tiene ficha.
	Create(ctx context.Context, p Provider) error
	Update(ctx context.Context, p Provider) error
	GetByID(ctx context.Context, id string) (Provider, error)
	GetByProfileID(ctx context.Context, profileID string) (Provider, error)

	// ListCandidates devuelve providers activos con su tarjeta de perfil.
	// Puede prefiltrar por f; el service vuelve a aplicar Filter.Matches.
	ListCandidates(ctx context.Context, f Filter) ([]Candidate, error)

	// IncrementBookings suma 1 a total_bookings. Participa de la tx del ctx si la hay.
	IncrementBookings(ctx context.Context, id string) error
}
