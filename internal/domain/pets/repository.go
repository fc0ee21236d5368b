package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListActiveByOwner devuelve las activas, más nuevas primero.
	ListActiveByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}
