// Package httpx contiene el sobre JSON común a todos los handlers.
// Antes writeJSON estaba duplicado por módulo; con seis módulos ya conviene un helper.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/logger"
)

// Envelope es el contrato de respuesta: {success, data|error, message?, count?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

func List(w http.ResponseWriter, data any, count int) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Fail responde 400 para cualquier fallo manejado; el kind sólo se refleja en el texto.
// Errores que no son de dominio se loguean y se responden con un mensaje genérico.
func Fail(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var de *apperr.Error
	if errors.As(err, &de) {
		WriteJSON(w, http.StatusBadRequest, Envelope{Success: false, Error: de.Error()})
		return
	}

	logger.FromContext(r.Context(), log).Error("request failed", map[string]any{
		"error":  err,
		"method": r.Method,
		"path":   r.URL.Path,
	})
	WriteJSON(w, http.StatusBadRequest, Envelope{Success: false, Error: "internal error"})
}
