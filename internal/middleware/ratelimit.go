package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

const maxTrackedLimiters = 10000

// RateLimiter limita requests por usuario (o por IP si no hay claims).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	log      logger.Logger
}

func NewRateLimiter(rps float64, burst int, log logger.Logger) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) >= maxTrackedLimiters {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler aplica el límite. rps <= 0 desactiva el limitador.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := r.RemoteAddr
		if c, ok := GetClaims(r.Context()); ok && c.UserID != "" {
			key = "user:" + c.UserID
		}

		if !rl.limiter(key).Allow() {
			logger.FromContext(r.Context(), rl.log).Warn("rate limit exceeded", map[string]any{
				"key":  key,
				"path": r.URL.Path,
			})
			w.Header().Set("Retry-After", "1")
			httpx.Fail(w, r, rl.log, apperr.Validation("too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Writes aplica el límite sólo a métodos que modifican estado.
func (rl *RateLimiter) Writes(next http.Handler) http.Handler {
	limited := rl.Handler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
}
