package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/requests"
)

type RequestRepo struct {
	mu   sync.RWMutex
	byID map[string]requests.ServiceRequest

	providers *ProviderRepo
}

// NewRequestRepo usa providers para derivar ProviderUserID.
func NewRequestRepo(providers *ProviderRepo) *RequestRepo {
	return &RequestRepo{
		byID:      make(map[string]requests.ServiceRequest),
		providers: providers,
	}
}

func (r *RequestRepo) Create(ctx context.Context, req requests.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(req.ID) == "" {
		return apperr.Validation("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return apperr.Duplicate("request already exists")
	}
	req.ProviderUserID = ""
	r.byID[req.ID] = req
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (requests.ServiceRequest, error) {
	r.mu.RLock()
	req, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return requests.ServiceRequest{}, apperr.NotFound("Service request not found")
	}
	req.ProviderUserID = r.providers.profileIDOf(req.ProviderID)
	return req, nil
}

func (r *RequestRepo) ListForUser(ctx context.Context, userID string, f requests.ListFilter) ([]requests.ServiceRequest, error) {
	r.mu.RLock()
	all := make([]requests.ServiceRequest, 0, len(r.byID))
	for _, req := range r.byID {
		all = append(all, req)
	}
	r.mu.RUnlock()

	out := make([]requests.ServiceRequest, 0)
	for _, req := range all {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		req.ProviderUserID = r.providers.profileIDOf(req.ProviderID)

		isOwner := req.OwnerID == userID
		isProvider := req.ProviderUserID == userID
		switch f.Role {
		case "owner":
			if !isOwner {
				continue
			}
		case "provider":
			if !isProvider {
				continue
			}
		default:
			if !isOwner && !isProvider {
				continue
			}
		}
		out = append(out, req)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, req requests.ServiceRequest, from requests.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[req.ID]
	if !ok {
		return apperr.NotFound("Service request not found")
	}
	if cur.Status != from {
		return apperr.InvalidState("cannot transition from %s to %s", cur.Status, req.Status)
	}

	next := cur
	next.Status = req.Status
	next.AcceptedAt = req.AcceptedAt
	next.StartedAt = req.StartedAt
	next.CompletedAt = req.CompletedAt
	next.CancelledAt = req.CancelledAt
	next.ProviderNotes = req.ProviderNotes
	next.OwnerNotes = req.OwnerNotes
	next.UpdatedAt = req.UpdatedAt
	r.byID[req.ID] = next

	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID[cur.ID] = cur
	})
	return nil
}
