package messages

import (
	"time"

	"petcare-marketplace/internal/domain/profiles"
)

// Type del contenido del mensaje.
// @Enum text, image, file
type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
	TypeFile  Type = "file"
)

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeFile:
		return true
	}
	return false
}

// Message pertenece al hilo de una solicitud; sólo owner y provider participan.
type Message struct {
	ID            string
	RequestID     string
	SenderID      string
	RecipientID   string
	Content       string
	Type          Type
	AttachmentURL string
	IsRead        bool
	CreatedAt     time.Time

	// Sender se completa al enviar (para la notificación y el broadcast); no se persiste.
	Sender *profiles.Card
}
