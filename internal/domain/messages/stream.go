package messages

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// La API es pública por CORS (*); el acceso lo decide el token.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamHandler godoc
// @Summary  Stream websocket de eventos del hilo (new_message)
// @Tags     messages
// @Param    access_token query string false "token si el cliente no puede mandar Authorization"
// @Router   /requests/{requestID}/stream [get]
func streamHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		requestID := chi.URLParam(r, "requestID")

		// El ctx del stream no depende del request: lo cierra el read loop.
		ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
		defer cancel()

		sub, err := svc.Subscribe(ctx, uid, requestID)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		defer sub.Close()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade ya respondió con el error HTTP.
			return
		}
		defer conn.Close()

		reqLog := logger.FromContext(r.Context(), log).With(map[string]any{
			"request_id": requestID,
			"user_id":    uid,
		})
		reqLog.Debug("stream opened", nil)

		go readLoop(conn, cancel)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				reqLog.Debug("stream closed", nil)
				return
			case ev, ok := <-sub.Events():
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					reqLog.Debug("stream write failed", map[string]any{"error": err})
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}
}

// readLoop descarta lo que mande el cliente y cancela al cerrarse la conexión.
func readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
