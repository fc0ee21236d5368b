package requests

import (
	"time"

	"petcare-marketplace/internal/domain/providers"
)

// Status del ciclo de vida de una solicitud.
// @Enum pending, accepted, rejected, in_progress, completed, cancelled
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusRejected:   {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.Valid() && len(validTransitions[s]) == 0
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ServiceRequest es una reserva de un owner a un provider para una mascota.
// Fechas en YYYY-MM-DD y horas en HH:MM, tal como las manda el cliente.
type ServiceRequest struct {
	ID             string
	OwnerID        string
	ProviderID     string
	ProviderUserID string // profile id del provider; no se persiste, se deriva
	PetID          string

	ServiceType providers.ServiceType
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string

	HourlyRate  *float64
	TotalHours  float64
	TotalAmount float64

	SpecialInstructions string
	EmergencyContact    string

	Status      Status
	RequestedAt time.Time
	AcceptedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	ProviderNotes string
	OwnerNotes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsParty indica si el usuario es owner o provider de la solicitud.
func (r ServiceRequest) IsParty(userID string) bool {
	return userID != "" && (userID == r.OwnerID || userID == r.ProviderUserID)
}

// CounterParty devuelve el otro participante, o "" si userID no participa.
func (r ServiceRequest) CounterParty(userID string) string {
	switch userID {
	case "":
		return ""
	case r.OwnerID:
		return r.ProviderUserID
	case r.ProviderUserID:
		return r.OwnerID
	}
	return ""
}

// TransitionTo aplica el cambio de estado y sella el timestamp de la fase.
// Los timestamps ya seteados no se pisan.
func (r *ServiceRequest) TransitionTo(to Status, now time.Time) bool {
	if !r.Status.CanTransitionTo(to) {
		return false
	}
	r.Status = to
	r.UpdatedAt = now

	stamp := func(dst **time.Time) {
		if *dst == nil {
			t := now
			*dst = &t
		}
	}
	switch to {
	case StatusAccepted:
		stamp(&r.AcceptedAt)
	case StatusInProgress:
		stamp(&r.StartedAt)
	case StatusCompleted:
		stamp(&r.CompletedAt)
	case StatusCancelled:
		stamp(&r.CancelledAt)
	}
	return true
}
