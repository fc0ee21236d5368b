package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) error
	// ListByUser devuelve más nuevas primero; limit <= 0 => sin límite.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	// MarkRead devuelve apperr.ErrNotFound si la notificación no es del usuario.
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
