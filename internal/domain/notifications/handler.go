package notifications

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/me/notifications", func(nr chi.Router) {
		nr.Get("/", listNotificationsHandler(svc, log))
		nr.Post("/read", markAllReadHandler(svc, log))
		nr.Post("/{notificationID}/read", markReadHandler(svc, log))
	})
}

type notificationResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Type       Type           `json:"notification_type"`
	RequestID  string         `json:"request_id,omitempty"`
	MessageID  string         `json:"message_id,omitempty"`
	ReviewID   string         `json:"review_id,omitempty"`
	ActionData map[string]any `json:"action_data,omitempty"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       n.Type,
		RequestID:  n.RequestID,
		MessageID:  n.MessageID,
		ReviewID:   n.ReviewID,
		ActionData: n.ActionData,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// listNotificationsHandler godoc
// @Summary  Notificaciones del usuario (más nuevas primero)
// @Tags     notifications
// @Produce  json
// @Param    unread query bool false "sólo no leídas"
// @Param    limit  query int  false "máximo 200"
// @Success  200 {object} httpx.Envelope
// @Router   /me/notifications [get]
func listNotificationsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items, err := svc.List(r.Context(), uid, unread, limit)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toResponse(n))
		}
		httpx.List(w, out, len(out))
	}
}

func markReadHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		if err := svc.MarkRead(r.Context(), uid, chi.URLParam(r, "notificationID")); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, nil, "")
	}
}

func markAllReadHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		n, err := svc.MarkAllRead(r.Context(), uid)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, map[string]int{"updated": n}, "")
	}
}
