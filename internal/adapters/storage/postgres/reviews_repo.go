package postgres

import (
	"context"
	"database/sql"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/reviews"
)

type ReviewsRepo struct {
	db *sql.DB
}

func NewReviewsRepo(db *sql.DB) *ReviewsRepo {
	return &ReviewsRepo{db: db}
}

// Create inserta la review; el trigger reviews_refresh_provider_rating recalcula el promedio.
func (r *ReviewsRepo) Create(ctx context.Context, rv reviews.Review) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO reviews (
			id, request_id, reviewer_id, reviewed_id,
			rating, title, comment, reviewer_type, is_public, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rv.ID, rv.RequestID, rv.ReviewerID, rv.ReviewedID,
		rv.Rating, nullString(rv.Title), nullString(rv.Comment), string(rv.ReviewerType), rv.IsPublic, rv.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Duplicate("You have already reviewed this request")
	}
	return err
}

func (r *ReviewsRepo) Exists(ctx context.Context, requestID, reviewerID string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE request_id = $1 AND reviewer_id = $2)
	`, requestID, reviewerID).Scan(&exists)
	return exists, err
}

func (r *ReviewsRepo) ListForReviewed(ctx context.Context, reviewedID string, publicOnly bool) ([]reviews.Review, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT
			id, request_id, reviewer_id, reviewed_id,
			rating, COALESCE(title, ''), COALESCE(comment, ''), reviewer_type, is_public, created_at
		FROM reviews
		WHERE reviewed_id = $1 AND (is_public OR NOT $2)
		ORDER BY created_at DESC, id
	`, reviewedID, publicOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reviews.Review, 0)
	for rows.Next() {
		var rv reviews.Review
		var typ string
		if err := rows.Scan(
			&rv.ID, &rv.RequestID, &rv.ReviewerID, &rv.ReviewedID,
			&rv.Rating, &rv.Title, &rv.Comment, &typ, &rv.IsPublic, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		rv.ReviewerType = reviews.ReviewerType(typ)
		out = append(out, rv)
	}
	return out, rows.Err()
}
