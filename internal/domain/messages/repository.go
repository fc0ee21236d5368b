package messages

import "context"

type Repository interface {
	Create(ctx context.Context, m Message) error
	// ListByRequest devuelve el hilo en orden de inserción.
	ListByRequest(ctx context.Context, requestID string) ([]Message, error)
	// MarkReadFor marca como leídos los mensajes del hilo dirigidos a recipientID.
	MarkReadFor(ctx context.Context, requestID, recipientID string) error
}
