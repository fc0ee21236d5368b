package messages

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	// Rutas planas: /requests ya está montado por el módulo requests.
	r.Post("/requests/{requestID}/messages", SendHandler(svc, log))
	r.Get("/requests/{requestID}/messages", listMessagesHandler(svc, log))
	r.Get("/requests/{requestID}/stream", streamHandler(svc, log))
}

type sendMessageRequest struct {
	// RequestID sólo se usa en la ruta /functions/v1.
	RequestID     string `json:"request_id"`
	RecipientID   string `json:"recipient_id"`
	Content       string `json:"content"`
	MessageType   string `json:"message_type"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

type messageResponse struct {
	ID            string         `json:"id"`
	RequestID     string         `json:"request_id"`
	SenderID      string         `json:"sender_id"`
	RecipientID   string         `json:"recipient_id"`
	Content       string         `json:"content"`
	MessageType   Type           `json:"message_type"`
	AttachmentURL string         `json:"attachment_url,omitempty"`
	IsRead        bool           `json:"is_read"`
	CreatedAt     time.Time      `json:"created_at"`
	Sender        *profiles.Card `json:"sender,omitempty"`
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:            m.ID,
		RequestID:     m.RequestID,
		SenderID:      m.SenderID,
		RecipientID:   m.RecipientID,
		Content:       m.Content,
		MessageType:   m.Type,
		AttachmentURL: m.AttachmentURL,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt,
		Sender:        m.Sender,
	}
}

// SendHandler godoc
// @Summary  Envía un mensaje en el hilo de una solicitud
// @Tags     messages
// @Accept   json
// @Produce  json
// @Success  201 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /requests/{requestID}/messages [post]
func SendHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req sendMessageRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		if err := httpx.Validate(req, ""); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		requestID := chi.URLParam(r, "requestID")
		if requestID == "" {
			requestID = req.RequestID
		}

		m, err := svc.Send(r.Context(), uid, SendInput{
			RequestID:     requestID,
			RecipientID:   req.RecipientID,
			Content:       req.Content,
			Type:          req.MessageType,
			AttachmentURL: req.AttachmentURL,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusCreated, toMessageResponse(m), "Mensagem enviada com sucesso")
	}
}

func listMessagesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		items, err := svc.List(r.Context(), uid, chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]messageResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMessageResponse(m))
		}
		httpx.List(w, out, len(out))
	}
}
