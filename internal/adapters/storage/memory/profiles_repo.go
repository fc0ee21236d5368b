package memory

import (
	"context"
	"strings"
	"sync"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/profiles"
)

type ProfileRepo struct {
	mu   sync.RWMutex
	byID map[string]profiles.Profile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{byID: make(map[string]profiles.Profile)}
}

func (r *ProfileRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return apperr.Validation("profile id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return apperr.Duplicate("Profile already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProfileRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return apperr.NotFound("Profile not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return profiles.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, nil
}

func (r *ProfileRepo) card(id string) profiles.Card {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.byID[id]; ok {
		return p.Card()
	}
	return profiles.Card{ID: id}
}
