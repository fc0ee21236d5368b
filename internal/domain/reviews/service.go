package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/domain/requests"
	"petcare-marketplace/internal/platform/metrics"
)

type Service struct {
	repo     Repository
	requests RequestFinder
	profiles ProfileLookup
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, reqs RequestFinder, profiles ProfileLookup, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		requests: reqs,
		profiles: profiles,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	RequestID string
	Rating    *int
	Title     string
	Comment   string
	IsPublic  *bool // default true
}

// Create registra la review del caller sobre la otra parte de un request completado.
// El promedio del provider lo recalcula la base (trigger).
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Review, error) {
	if strings.TrimSpace(callerID) == "" {
		return Review{}, apperr.AuthRequired()
	}
	if strings.TrimSpace(in.RequestID) == "" || in.Rating == nil {
		return Review{}, apperr.Validation("Request ID and rating are required")
	}
	if *in.Rating < MinRating || *in.Rating > MaxRating {
		return Review{}, apperr.Validation("Rating must be between 1 and 5")
	}

	req, err := s.requests.Find(ctx, in.RequestID)
	if err != nil {
		return Review{}, err
	}

	var reviewerType ReviewerType
	switch callerID {
	case req.OwnerID:
		reviewerType = ReviewerOwner
	case req.ProviderUserID:
		reviewerType = ReviewerProvider
	default:
		return Review{}, apperr.PermissionDenied("Access denied")
	}
	if req.Status != requests.StatusCompleted {
		return Review{}, apperr.InvalidState("Can only review completed services")
	}

	exists, err := s.repo.Exists(ctx, req.ID, callerID)
	if err != nil {
		return Review{}, err
	}
	if exists {
		return Review{}, apperr.Duplicate("You have already reviewed this request")
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	rv := Review{
		ID:           uuid.NewString(),
		RequestID:    req.ID,
		ReviewerID:   callerID,
		ReviewedID:   req.CounterParty(callerID),
		Rating:       *in.Rating,
		Title:        strings.TrimSpace(in.Title),
		Comment:      strings.TrimSpace(in.Comment),
		ReviewerType: reviewerType,
		IsPublic:     isPublic,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return Review{}, err
	}
	metrics.ReviewCreated()

	reviewerName := ""
	if p, err := s.profiles.Get(ctx, callerID); err == nil {
		card := p.Card()
		rv.Reviewer = &card
		reviewerName = p.FullName
	}

	s.notifier.Notify(ctx, notifications.Input{
		UserID:    rv.ReviewedID,
		Title:     "Nova Avaliação",
		Message:   fmt.Sprintf("Você recebeu uma nova avaliação de %s", reviewerName),
		Type:      notifications.TypeNewReview,
		RequestID: req.ID,
		ReviewID:  rv.ID,
		ActionData: map[string]any{
			"request_id":    req.ID,
			"review_id":     rv.ID,
			"rating":        rv.Rating,
			"reviewer_name": reviewerName,
		},
	})
	return rv, nil
}

// ListForUser devuelve las reviews recibidas por un perfil. Las privadas sólo las ve el propio perfil.
func (s *Service) ListForUser(ctx context.Context, callerID, profileID string) ([]Review, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, apperr.Validation("profile id is required")
	}
	items, err := s.repo.ListForReviewed(ctx, profileID, callerID != profileID)
	if err != nil {
		return nil, err
	}

	cards := map[string]*profiles.Card{}
	for i := range items {
		id := items[i].ReviewerID
		card, ok := cards[id]
		if !ok {
			if p, err := s.profiles.Get(ctx, id); err == nil {
				c := p.Card()
				card = &c
			}
			cards[id] = card
		}
		items[i].Reviewer = card
	}
	return items, nil
}
