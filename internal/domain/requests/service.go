package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/platform/metrics"
	"petcare-marketplace/internal/ports/storage"
)

// Acciones de Respond.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

type Service struct {
	repo      Repository
	pets      PetLookup
	providers ProviderDirectory
	tx        storage.TxManager
	notifier  Notifier
	log       logger.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	pets PetLookup,
	providers ProviderDirectory,
	tx storage.TxManager,
	notifier Notifier,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		pets:      pets,
		providers: providers,
		tx:        tx,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

type CreateInput struct {
	ProviderID          string
	PetID               string
	ServiceType         string
	StartDate           string
	EndDate             string
	StartTime           string
	EndTime             string
	SpecialInstructions string
	EmergencyContact    string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (ServiceRequest, error) {
	if strings.TrimSpace(ownerID) == "" {
		return ServiceRequest{}, apperr.AuthRequired()
	}
	in.ProviderID = strings.TrimSpace(in.ProviderID)
	in.PetID = strings.TrimSpace(in.PetID)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	if in.ProviderID == "" || in.PetID == "" || in.ServiceType == "" || strings.TrimSpace(in.StartDate) == "" {
		return ServiceRequest{}, apperr.Validation("Missing required fields")
	}

	serviceType := providers.ServiceType(strings.ToLower(in.ServiceType))
	if !serviceType.Valid() {
		return ServiceRequest{}, apperr.Validation("invalid service type %q", in.ServiceType)
	}

	sched, start, end, err := NormalizeSchedule(in.StartDate, in.EndDate, in.StartTime, in.EndTime)
	if err != nil {
		return ServiceRequest{}, err
	}

	petOwner, err := s.pets.OwnerOfActive(ctx, in.PetID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if petOwner != ownerID {
		return ServiceRequest{}, apperr.PermissionDenied("Access denied")
	}

	provider, err := s.providers.Get(ctx, in.ProviderID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if provider.ProfileID == ownerID {
		return ServiceRequest{}, apperr.Validation("cannot book your own provider profile")
	}

	hours, amount := Quote(start, end, provider.HourlyRate)
	now := s.now()
	req := ServiceRequest{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		ProviderID:          provider.ID,
		ProviderUserID:      provider.ProfileID,
		PetID:               in.PetID,
		ServiceType:         serviceType,
		StartDate:           sched.StartDate,
		EndDate:             sched.EndDate,
		StartTime:           sched.StartTime,
		EndTime:             sched.EndTime,
		HourlyRate:          provider.HourlyRate,
		TotalHours:          hours,
		TotalAmount:         amount,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		EmergencyContact:    strings.TrimSpace(in.EmergencyContact),
		Status:              StatusPending,
		RequestedAt:         now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return ServiceRequest{}, err
	}
	metrics.RequestTransition(string(StatusPending))

	s.notifier.Notify(ctx, notifications.Input{
		UserID:     req.ProviderUserID,
		Title:      "Nova Solicitação de Serviço",
		Message:    fmt.Sprintf("Você recebeu uma nova solicitação de %s", req.ServiceType),
		Type:       notifications.TypeNewRequest,
		RequestID:  req.ID,
		ActionData: map[string]any{"request_id": req.ID},
	})
	return req, nil
}

// Find carga una solicitud sin chequear participantes; lo usan mensajes y reviews.
func (s *Service) Find(ctx context.Context, id string) (ServiceRequest, error) {
	if strings.TrimSpace(id) == "" {
		return ServiceRequest{}, apperr.Validation("request id is required")
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ServiceRequest{}, apperr.NotFound("Service request not found")
		}
		return ServiceRequest{}, err
	}
	return r, nil
}

// Get sólo para owner o provider de la solicitud.
func (s *Service) Get(ctx context.Context, callerID, id string) (ServiceRequest, error) {
	r, err := s.Find(ctx, id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if !r.IsParty(callerID) {
		return ServiceRequest{}, apperr.PermissionDenied("Access denied")
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, callerID string, f ListFilter) ([]ServiceRequest, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, apperr.AuthRequired()
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("invalid status %q", f.Status)
	}
	switch f.Role {
	case "", "owner", "provider":
	default:
		return nil, apperr.Validation("role must be owner or provider")
	}
	return s.repo.ListForUser(ctx, callerID, f)
}

// Respond: el provider acepta o rechaza una solicitud pendiente.
// Aceptar y sumar la reserva al provider van en la misma transacción.
func (s *Service) Respond(ctx context.Context, callerID, requestID, action, notes string) (ServiceRequest, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionAccept && action != ActionReject {
		return ServiceRequest{}, apperr.Validation(`Action must be either "accept" or "reject"`)
	}

	r, err := s.Find(ctx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if callerID == "" || callerID != r.ProviderUserID {
		return ServiceRequest{}, apperr.PermissionDenied("Access denied")
	}
	if r.Status != StatusPending {
		return ServiceRequest{}, apperr.InvalidState("Request is no longer pending")
	}

	to := StatusRejected
	if action == ActionAccept {
		to = StatusAccepted
	}
	r.TransitionTo(to, s.now())
	if n := strings.TrimSpace(notes); n != "" {
		r.ProviderNotes = n
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, r, StatusPending); err != nil {
			return err
		}
		if to == StatusAccepted {
			return s.providers.IncrementBookings(ctx, r.ProviderID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			return ServiceRequest{}, apperr.InvalidState("Request is no longer pending")
		}
		return ServiceRequest{}, err
	}
	metrics.RequestTransition(string(to))

	in := notifications.Input{
		UserID:    r.OwnerID,
		RequestID: r.ID,
		ActionData: map[string]any{
			"request_id":     r.ID,
			"status":         string(to),
			"provider_notes": r.ProviderNotes,
		},
	}
	if to == StatusAccepted {
		in.Type = notifications.TypeRequestAccepted
		in.Title = "Solicitação Aceita!"
		in.Message = fmt.Sprintf("Sua solicitação de %s foi aceita", r.ServiceType)
	} else {
		in.Type = notifications.TypeRequestRejected
		in.Title = "Solicitação Rejeitada"
		in.Message = fmt.Sprintf("Sua solicitação de %s foi rejeitada", r.ServiceType)
	}
	s.notifier.Notify(ctx, in)

	return r, nil
}

// Start: el provider inicia un servicio aceptado.
func (s *Service) Start(ctx context.Context, callerID, requestID string) (ServiceRequest, error) {
	r, err := s.loadForProvider(ctx, callerID, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := s.advance(ctx, &r, StatusInProgress); err != nil {
		return ServiceRequest{}, err
	}

	s.notifier.Notify(ctx, notifications.Input{
		UserID:     r.OwnerID,
		Title:      "Serviço Iniciado",
		Message:    fmt.Sprintf("Seu serviço de %s foi iniciado", r.ServiceType),
		Type:       notifications.TypeRequestStarted,
		RequestID:  r.ID,
		ActionData: map[string]any{"request_id": r.ID, "status": string(r.Status)},
	})
	return r, nil
}

// Complete: el provider cierra un servicio en curso.
func (s *Service) Complete(ctx context.Context, callerID, requestID string) (ServiceRequest, error) {
	r, err := s.loadForProvider(ctx, callerID, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if err := s.advance(ctx, &r, StatusCompleted); err != nil {
		return ServiceRequest{}, err
	}

	s.notifier.Notify(ctx, notifications.Input{
		UserID:     r.OwnerID,
		Title:      "Serviço Concluído",
		Message:    fmt.Sprintf("Seu serviço de %s foi concluído. Que tal deixar uma avaliação?", r.ServiceType),
		Type:       notifications.TypeRequestCompleted,
		RequestID:  r.ID,
		ActionData: map[string]any{"request_id": r.ID, "status": string(r.Status)},
	})
	return r, nil
}

// Cancel: cualquiera de las partes, desde un estado no terminal.
// Las notas quedan del lado de quien cancela.
func (s *Service) Cancel(ctx context.Context, callerID, requestID, notes string) (ServiceRequest, error) {
	r, err := s.Get(ctx, callerID, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}

	if n := strings.TrimSpace(notes); n != "" {
		if callerID == r.OwnerID {
			r.OwnerNotes = n
		} else {
			r.ProviderNotes = n
		}
	}
	if err := s.advance(ctx, &r, StatusCancelled); err != nil {
		return ServiceRequest{}, err
	}

	s.notifier.Notify(ctx, notifications.Input{
		UserID:    r.CounterParty(callerID),
		Title:     "Solicitação Cancelada",
		Message:   fmt.Sprintf("A solicitação de %s foi cancelada", r.ServiceType),
		Type:      notifications.TypeRequestCancelled,
		RequestID: r.ID,
		ActionData: map[string]any{
			"request_id":   r.ID,
			"status":       string(r.Status),
			"cancelled_by": callerID,
		},
	})
	return r, nil
}

func (s *Service) loadForProvider(ctx context.Context, callerID, requestID string) (ServiceRequest, error) {
	r, err := s.Find(ctx, requestID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if callerID == "" || callerID != r.ProviderUserID {
		return ServiceRequest{}, apperr.PermissionDenied("Access denied")
	}
	return r, nil
}

// advance valida la transición y la persiste de forma condicional al estado leído.
func (s *Service) advance(ctx context.Context, r *ServiceRequest, to Status) error {
	from := r.Status
	if !r.TransitionTo(to, s.now()) {
		return apperr.InvalidState("Cannot change request from %s to %s", from, to)
	}
	if err := s.repo.UpdateStatus(ctx, *r, from); err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			return apperr.InvalidState("Request status changed, please reload")
		}
		return err
	}
	metrics.RequestTransition(string(to))
	return nil
}
