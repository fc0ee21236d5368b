package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/platform/metrics"
	"petcare-marketplace/internal/ports/realtime"
)

const (
	dispatchTimeout = 5 * time.Second
	defaultLimit    = 50
	maxLimit        = 200
)

// Service guarda notificaciones y las empuja al canal user_<id>.
type Service struct {
	repo Repository
	pub  realtime.Publisher
	log  logger.Logger
	now  func() time.Time
}

// pub puede ser nil (sin realtime).
func NewService(repo Repository, pub realtime.Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		pub:  pub,
		log:  log,
		now:  time.Now,
	}
}

// Notify es fire-and-forget: no devuelve error y no se corta si el request del
// caller se cancela. Los fallos sólo se loguean.
func (s *Service) Notify(ctx context.Context, in Input) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	log := logger.FromContext(ctx, s.log).With(map[string]any{
		"notification_type": string(in.Type),
		"user_id":           in.UserID,
		"request_id":        in.RequestID,
	})

	if strings.TrimSpace(in.UserID) == "" {
		log.Warn("notification without recipient dropped", nil)
		metrics.NotificationDispatched(string(in.Type), false)
		return
	}

	n := Notification{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		Title:      in.Title,
		Message:    in.Message,
		Type:       in.Type,
		RequestID:  in.RequestID,
		MessageID:  in.MessageID,
		ReviewID:   in.ReviewID,
		ActionData: in.ActionData,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Error("failed to create notification", map[string]any{"error": err})
		metrics.NotificationDispatched(string(in.Type), false)
		return
	}
	metrics.NotificationDispatched(string(in.Type), true)

	if s.pub == nil {
		return
	}
	ev, err := realtime.NewEvent(realtime.EventNotification, toResponse(n))
	if err == nil {
		err = s.pub.Publish(ctx, realtime.UserChannel(n.UserID), ev)
	}
	if err != nil {
		log.Warn("failed to publish notification", map[string]any{"error": err})
	}
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.AuthRequired()
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("notification id is required")
	}
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
