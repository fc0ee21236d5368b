package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/reviews"
)

type ReviewRepo struct {
	mu    sync.RWMutex
	items []reviews.Review

	providers *ProviderRepo
}

// NewReviewRepo recalcula el rating del provider reseñado en cada alta.
func NewReviewRepo(providers *ProviderRepo) *ReviewRepo {
	return &ReviewRepo{providers: providers}
}

func (r *ReviewRepo) Create(ctx context.Context, rv reviews.Review) error {
	r.mu.Lock()
	for _, it := range r.items {
		if it.RequestID == rv.RequestID && it.ReviewerID == rv.ReviewerID {
			r.mu.Unlock()
			return apperr.Duplicate("You have already reviewed this request")
		}
	}
	rv.Reviewer = nil
	r.items = append(r.items, rv)

	sum, total := 0, 0
	for _, it := range r.items {
		if it.ReviewedID == rv.ReviewedID && it.ReviewerType == reviews.ReviewerOwner {
			sum += it.Rating
			total++
		}
	}
	r.mu.Unlock()

	if rv.ReviewerType == reviews.ReviewerOwner && total > 0 {
		avg := math.Round(float64(sum)/float64(total)*100) / 100
		r.providers.applyRating(rv.ReviewedID, avg, total)
	}
	return nil
}

func (r *ReviewRepo) Exists(ctx context.Context, requestID, reviewerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if it.RequestID == requestID && it.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepo) ListForReviewed(ctx context.Context, reviewedID string, publicOnly bool) ([]reviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviews.Review, 0)
	for _, it := range r.items {
		if it.ReviewedID != reviewedID || (publicOnly && !it.IsPublic) {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
