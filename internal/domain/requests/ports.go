package requests

import (
	"context"

	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/providers"
)

// Interfaces chicas para no depender de los services concretos.

type PetLookup interface {
	// OwnerOfActive devuelve NotFound si la mascota no existe o está inactiva.
	OwnerOfActive(ctx context.Context, petID string) (string, error)
}

type ProviderDirectory interface {
	// Get devuelve NotFound si el provider no existe o está inactivo.
	Get(ctx context.Context, id string) (providers.Provider, error)
	IncrementBookings(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, in notifications.Input)
}
