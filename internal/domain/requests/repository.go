package requests

import "context"

type ListFilter struct {
	Status Status // "" = todos
	// Role limita a "owner" o "provider"; "" = ambos.
	Role string
}

type Repository interface {
	Create(ctx context.Context, r ServiceRequest) error
	// GetByID completa ProviderUserID desde la ficha del provider.
	GetByID(ctx context.Context, id string) (ServiceRequest, error)
	// ListForUser devuelve las solicitudes donde el usuario es owner o provider, más nuevas primero.
	ListForUser(ctx context.Context, userID string, f ListFilter) ([]ServiceRequest, error)
	// UpdateStatus persiste estado, timestamps y notas sólo si el estado actual
	// sigue siendo from; si no, devuelve apperr.ErrInvalidState.
	UpdateStatus(ctx context.Context, r ServiceRequest, from Status) error
}
