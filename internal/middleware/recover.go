package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

// Recover reemplaza a chi/middleware.Recoverer: loguea el panic con stack y
// responde con el sobre de error en vez de un 500 en texto plano.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContext(r.Context(), log).Error("panic recovered", map[string]any{
					"panic":  fmt.Sprint(rec),
					"stack":  string(debug.Stack()),
					"method": r.Method,
					"path":   r.URL.Path,
				})
				httpx.WriteJSON(w, http.StatusInternalServerError, httpx.Envelope{
					Success: false,
					Error:   "internal error",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
