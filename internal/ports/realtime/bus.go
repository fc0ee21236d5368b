// Package realtime define el canal de eventos en vivo (mensajes de un request,
// notificaciones de un usuario). Publicar es best-effort: quien publica loguea y sigue.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
)

// Nombres de eventos publicados.
const (
	EventNewMessage   = "new_message"
	EventNotification = "notification"
)

type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(eventType string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: b}, nil
}

func RequestChannel(requestID string) string { return "request_" + requestID }
func UserChannel(userID string) string       { return "user_" + userID }

type Publisher interface {
	Publish(ctx context.Context, channel string, ev Event) error
}

// Subscription entrega eventos hasta que se llama Close o se cancela el ctx del Subscribe.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type Bus interface {
	Publisher
	Subscriber
}
