package notifications

import "time"

// Type clasifica la notificación para la UI.
// @Enum new_request, request_accepted, request_rejected, request_started, request_completed, request_cancelled, new_message, new_review, reminder
type Type string

const (
	TypeNewRequest       Type = "new_request"
	TypeRequestAccepted  Type = "request_accepted"
	TypeRequestRejected  Type = "request_rejected"
	TypeRequestStarted   Type = "request_started"
	TypeRequestCompleted Type = "request_completed"
	TypeRequestCancelled Type = "request_cancelled"
	TypeNewMessage       Type = "new_message"
	TypeNewReview        Type = "new_review"
	TypeReminder         Type = "reminder"
)

type Notification struct {
	ID      string
	UserID  string
	Title   string
	Message string
	Type    Type

	RequestID string
	MessageID string
	ReviewID  string

	ActionData map[string]any

	IsRead    bool
	CreatedAt time.Time
}

// Input es lo que arma cada módulo al disparar una notificación.
type Input struct {
	UserID     string
	Title      string
	Message    string
	Type       Type
	RequestID  string
	MessageID  string
	ReviewID   string
	ActionData map[string]any
}
