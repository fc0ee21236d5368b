package memory

import (
	"context"
	"strings"
	"sync"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/providers"
)

type ProviderRepo struct {
	mu        sync.RWMutex
	byID      map[string]providers.Provider
	byProfile map[string]string

	profiles *ProfileRepo
}

// NewProviderRepo usa profiles para armar las tarjetas de ListCandidates.
func NewProviderRepo(profiles *ProfileRepo) *ProviderRepo {
	return &ProviderRepo{
		byID:      make(map[string]providers.Provider),
		byProfile: make(map[string]string),
		profiles:  profiles,
	}
}

func (r *ProviderRepo) Create(ctx context.Context, p providers.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return apperr.Validation("provider id required")
	}
	if _, exists := r.byProfile[p.ProfileID]; exists {
		return apperr.Duplicate("Provider profile already exists")
	}
	r.byID[p.ID] = clone(p)
	r.byProfile[p.ProfileID] = p.ID
	return nil
}

func (r *ProviderRepo) Update(ctx context.Context, p providers.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[p.ID]
	if !exists {
		return apperr.NotFound("Service provider not found")
	}
	// los agregados los mantienen reviews y bookings
	p.AverageRating = cur.AverageRating
	p.TotalReviews = cur.TotalReviews
	p.TotalBookings = cur.TotalBookings
	r.byID[p.ID] = clone(p)
	return nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, id string) (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return providers.Provider{}, apperr.NotFound("Service provider not found")
	}
	return clone(p), nil
}

func (r *ProviderRepo) GetByProfileID(ctx context.Context, profileID string) (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byProfile[profileID]
	if !ok {
		return providers.Provider{}, apperr.NotFound("Service provider not found")
	}
	return clone(r.byID[id]), nil
}

func (r *ProviderRepo) ListCandidates(ctx context.Context, f providers.Filter) ([]providers.Candidate, error) {
	r.mu.RLock()
	items := make([]providers.Provider, 0, len(r.byID))
	for _, p := range r.byID {
		if f.Matches(p) {
			items = append(items, clone(p))
		}
	}
	r.mu.RUnlock()

	out := make([]providers.Candidate, 0, len(items))
	for _, p := range items {
		out = append(out, providers.Candidate{Provider: p, Profile: r.profiles.card(p.ProfileID)})
	}
	return out, nil
}

func (r *ProviderRepo) IncrementBookings(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("Service provider not found")
	}
	p.TotalBookings++
	r.byID[id] = p

	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.byID[id]; ok {
			cur.TotalBookings--
			r.byID[id] = cur
		}
	})
	return nil
}

// applyRating replica el trigger de reviews: promedio y total sobre las reviews de owners.
func (r *ProviderRepo) applyRating(profileID string, avg float64, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byProfile[profileID]
	if !ok {
		return
	}
	p := r.byID[id]
	p.AverageRating = avg
	p.TotalReviews = total
	r.byID[id] = p
}

func (r *ProviderRepo) profileIDOf(providerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[providerID].ProfileID
}

func clone(p providers.Provider) providers.Provider {
	p.Services = append([]providers.ServiceType(nil), p.Services...)
	p.PetTypes = append(p.PetTypes[:0:0], p.PetTypes...)
	p.PetSizes = append(p.PetSizes[:0:0], p.PetSizes...)
	p.AvailableWeekdays = append([]int(nil), p.AvailableWeekdays...)
	return p
}
