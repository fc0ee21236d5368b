package reviews

import "context"

type Repository interface {
	// Create devuelve apperr.ErrDuplicate si ya hay review de ese reviewer para el request.
	Create(ctx context.Context, r Review) error
	Exists(ctx context.Context, requestID, reviewerID string) (bool, error)
	// ListForReviewed devuelve las reviews recibidas, más nuevas primero.
	ListForReviewed(ctx context.Context, reviewedID string, publicOnly bool) ([]Review, error)
}
