package profiles

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/me/profile", getMyProfileHandler(svc, log))
	r.Patch("/me/profile", updateMyProfileHandler(svc, log))
}

// EnsureMiddleware crea el perfil del caller autenticado si todavía no existe.
// Un fallo acá se loguea y no corta el request.
func EnsureMiddleware(svc *Service, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := middleware.GetClaims(r.Context()); ok && c.UserID != "" {
				if _, err := svc.Ensure(r.Context(), c); err != nil {
					logger.FromContext(r.Context(), log).Warn("ensure profile failed", map[string]any{
						"user_id": c.UserID,
						"error":   err,
					})
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type profileResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	AvatarURL        string    `json:"avatar_url"`
	UserType         UserType  `json:"user_type"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	PostalCode       string    `json:"postal_code"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	ProfileCompleted bool      `json:"profile_completed"`
	EmailVerified    bool      `json:"email_verified"`
	PhoneVerified    bool      `json:"phone_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:               p.ID,
		Email:            p.Email,
		FullName:         p.FullName,
		Phone:            p.Phone,
		AvatarURL:        p.AvatarURL,
		UserType:         p.UserType,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		PostalCode:       p.PostalCode,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		ProfileCompleted: p.ProfileCompleted,
		EmailVerified:    p.EmailVerified,
		PhoneVerified:    p.PhoneVerified,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type updateProfileRequest struct {
	FullName   *string  `json:"full_name"`
	Phone      *string  `json:"phone"`
	AvatarURL  *string  `json:"avatar_url" validate:"omitempty,url"`
	UserType   *string  `json:"user_type"`
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	PostalCode *string  `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// getMyProfileHandler godoc
// @Summary  Perfil del usuario autenticado
// @Tags     profiles
// @Produce  json
// @Success  200 {object} httpx.Envelope
// @Router   /me/profile [get]
func getMyProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Get(r.Context(), uid)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toProfileResponse(p), "")
	}
}

// updateMyProfileHandler godoc
// @Summary  Actualiza el perfil propio (PATCH parcial)
// @Tags     profiles
// @Accept   json
// @Produce  json
// @Success  200 {object} httpx.Envelope
// @Router   /me/profile [patch]
func updateMyProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req updateProfileRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		if err := httpx.Validate(req, ""); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Update(r.Context(), uid, UpdateInput{
			FullName:   req.FullName,
			Phone:      req.Phone,
			AvatarURL:  req.AvatarURL,
			UserType:   req.UserType,
			Address:    req.Address,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toProfileResponse(p), "")
	}
}
