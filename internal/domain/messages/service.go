package messages

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/requests"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/platform/metrics"
	"petcare-marketplace/internal/ports/realtime"
)

const maxContentLen = 5000

type Service struct {
	repo     Repository
	requests RequestFinder
	profiles ProfileLookup
	notifier Notifier
	bus      realtime.Bus
	log      logger.Logger
	now      func() time.Time
}

// bus puede ser nil: se guarda y notifica igual, sin broadcast ni stream.
func NewService(
	repo Repository,
	reqs RequestFinder,
	profiles ProfileLookup,
	notifier Notifier,
	bus realtime.Bus,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		requests: reqs,
		profiles: profiles,
		notifier: notifier,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

type SendInput struct {
	RequestID     string
	RecipientID   string // opcional; si viene tiene que ser la otra parte
	Content       string
	Type          string
	AttachmentURL string
}

func (s *Service) Send(ctx context.Context, callerID string, in SendInput) (Message, error) {
	if strings.TrimSpace(callerID) == "" {
		return Message{}, apperr.AuthRequired()
	}
	content := strings.TrimSpace(in.Content)
	if strings.TrimSpace(in.RequestID) == "" || content == "" {
		return Message{}, apperr.Validation("Missing required fields")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return Message{}, apperr.Validation("content too long")
	}

	msgType := TypeText
	if t := strings.TrimSpace(in.Type); t != "" {
		msgType = Type(strings.ToLower(t))
		if !msgType.Valid() {
			return Message{}, apperr.Validation("invalid message_type %q", in.Type)
		}
	}

	req, err := s.loadThread(ctx, callerID, in.RequestID)
	if err != nil {
		return Message{}, err
	}

	recipient := req.CounterParty(callerID)
	if r := strings.TrimSpace(in.RecipientID); r != "" && r != recipient {
		return Message{}, apperr.Validation("Invalid recipient")
	}

	m := Message{
		ID:            uuid.NewString(),
		RequestID:     req.ID,
		SenderID:      callerID,
		RecipientID:   recipient,
		Content:       content,
		Type:          msgType,
		AttachmentURL: strings.TrimSpace(in.AttachmentURL),
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Message{}, err
	}
	metrics.MessageSent()

	senderName := ""
	if p, err := s.profiles.Get(ctx, callerID); err == nil {
		card := p.Card()
		m.Sender = &card
		senderName = p.FullName
	}

	s.notifier.Notify(ctx, notifications.Input{
		UserID:    recipient,
		Title:     "Nova Mensagem",
		Message:   fmt.Sprintf("Você recebeu uma nova mensagem de %s", senderName),
		Type:      notifications.TypeNewMessage,
		RequestID: req.ID,
		MessageID: m.ID,
		ActionData: map[string]any{
			"request_id":  req.ID,
			"message_id":  m.ID,
			"sender_name": senderName,
		},
	})
	s.broadcast(ctx, m)

	return m, nil
}

// List devuelve el hilo y marca como leídos los mensajes dirigidos al caller.
func (s *Service) List(ctx context.Context, callerID, requestID string) ([]Message, error) {
	if _, err := s.loadThread(ctx, callerID, requestID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkReadFor(ctx, requestID, callerID); err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to mark messages read", map[string]any{
			"request_id": requestID,
			"error":      err,
		})
	}
	return items, nil
}

// Subscribe abre el stream en vivo del hilo. Sólo para las partes.
func (s *Service) Subscribe(ctx context.Context, callerID, requestID string) (realtime.Subscription, error) {
	if _, err := s.loadThread(ctx, callerID, requestID); err != nil {
		return nil, err
	}
	if s.bus == nil {
		return nil, apperr.Validation("realtime is not enabled")
	}
	return s.bus.Subscribe(ctx, realtime.RequestChannel(requestID))
}

func (s *Service) loadThread(ctx context.Context, callerID, requestID string) (requests.ServiceRequest, error) {
	if strings.TrimSpace(callerID) == "" {
		return requests.ServiceRequest{}, apperr.AuthRequired()
	}
	req, err := s.requests.Find(ctx, requestID)
	if err != nil {
		return requests.ServiceRequest{}, err
	}
	if !req.IsParty(callerID) {
		return requests.ServiceRequest{}, apperr.PermissionDenied("Access denied")
	}
	return req, nil
}

// broadcast es best-effort: un fallo del bus no afecta al mensaje ya guardado.
func (s *Service) broadcast(ctx context.Context, m Message) {
	if s.bus == nil {
		return
	}
	ev, err := realtime.NewEvent(realtime.EventNewMessage, toMessageResponse(m))
	if err == nil {
		err = s.bus.Publish(context.WithoutCancel(ctx), realtime.RequestChannel(m.RequestID), ev)
	}
	if err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to broadcast message", map[string]any{
			"request_id": m.RequestID,
			"message_id": m.ID,
			"error":      err,
		})
	}
}
