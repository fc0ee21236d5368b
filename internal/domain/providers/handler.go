package providers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/providers", func(pr chi.Router) {
		pr.Post("/", registerProviderHandler(svc, log))
		pr.Post("/search", SearchHandler(svc, log))
		pr.Get("/me", getMyProviderHandler(svc, log))
		pr.Patch("/me", updateMyProviderHandler(svc, log))
		pr.Get("/{providerID}", getProviderHandler(svc, log))
	})
}

type providerRequest struct {
	BusinessName      *string  `json:"business_name"`
	Description       *string  `json:"description"`
	ExperienceYears   *int     `json:"experience_years"`
	HourlyRate        *float64 `json:"hourly_rate"`
	Services          []string `json:"services"`
	PetTypes          []string `json:"pet_types"`
	PetSizes          []string `json:"pet_sizes"`
	AvailableWeekdays []int    `json:"available_weekdays"`
	AvailableStart    *string  `json:"available_hours_start"`
	AvailableEnd      *string  `json:"available_hours_end"`
	ServiceRadiusKm   *float64 `json:"service_radius"`
	IsActive          *bool    `json:"is_active"`
}

func (req providerRequest) input() ProfileInput {
	return ProfileInput{
		BusinessName:      req.BusinessName,
		Description:       req.Description,
		ExperienceYears:   req.ExperienceYears,
		HourlyRate:        req.HourlyRate,
		Services:          req.Services,
		PetTypes:          req.PetTypes,
		PetSizes:          req.PetSizes,
		AvailableWeekdays: req.AvailableWeekdays,
		AvailableStart:    req.AvailableStart,
		AvailableEnd:      req.AvailableEnd,
		ServiceRadiusKm:   req.ServiceRadiusKm,
		IsActive:          req.IsActive,
	}
}

type providerResponse struct {
	ID                      string         `json:"id"`
	ProfileID               string         `json:"profile_id"`
	BusinessName            string         `json:"business_name"`
	Description             string         `json:"description"`
	ExperienceYears         int            `json:"experience_years"`
	HourlyRate              *float64       `json:"hourly_rate"`
	Services                []ServiceType  `json:"services"`
	PetTypes                []pets.PetType `json:"pet_types"`
	PetSizes                []pets.Size    `json:"pet_sizes"`
	AvailableWeekdays       []int          `json:"available_weekdays"`
	AvailableStart          string         `json:"available_hours_start"`
	AvailableEnd            string         `json:"available_hours_end"`
	ServiceRadiusKm         float64        `json:"service_radius"`
	BackgroundCheckVerified bool           `json:"background_check_verified"`
	InsuranceVerified       bool           `json:"insurance_verified"`
	AverageRating           float64        `json:"average_rating"`
	TotalReviews            int            `json:"total_reviews"`
	TotalBookings           int            `json:"total_bookings"`
	IsActive                bool           `json:"is_active"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

type matchResponse struct {
	providerResponse
	Profile  profiles.Card `json:"profile"`
	Distance float64       `json:"distance"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toProviderResponse(p Provider) providerResponse {
	return providerResponse{
		ID:                      p.ID,
		ProfileID:               p.ProfileID,
		BusinessName:            p.BusinessName,
		Description:             p.Description,
		ExperienceYears:         p.ExperienceYears,
		HourlyRate:              p.HourlyRate,
		Services:                nonNil(p.Services),
		PetTypes:                nonNil(p.PetTypes),
		PetSizes:                nonNil(p.PetSizes),
		AvailableWeekdays:       nonNil(p.AvailableWeekdays),
		AvailableStart:          p.AvailableStart,
		AvailableEnd:            p.AvailableEnd,
		ServiceRadiusKm:         p.ServiceRadiusKm,
		BackgroundCheckVerified: p.BackgroundCheckVerified,
		InsuranceVerified:       p.InsuranceVerified,
		AverageRating:           p.AverageRating,
		TotalReviews:            p.TotalReviews,
		TotalBookings:           p.TotalBookings,
		IsActive:                p.IsActive,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

// registerProviderHandler godoc
// @Summary  Da de alta la ficha de provider del usuario autenticado
// @Tags     providers
// @Accept   json
// @Produce  json
// @Success  201 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /providers [post]
func registerProviderHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req providerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Register(r.Context(), uid, req.input())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusCreated, toProviderResponse(p), "")
	}
}

func getMyProviderHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.GetMine(r.Context(), uid)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toProviderResponse(p), "")
	}
}

func updateMyProviderHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req providerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.UpdateMine(r.Context(), uid, req.input())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toProviderResponse(p), "")
	}
}

func getProviderHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.UserID(r.Context()); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Get(r.Context(), chi.URLParam(r, "providerID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toProviderResponse(p), "")
	}
}

type searchRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Radius        *float64 `json:"radius"`
	ServiceType   string   `json:"service_type"`
	PetType       string   `json:"pet_type"`
	PetSize       string   `json:"pet_size"`
	MinRating     *float64 `json:"min_rating"`
	MaxRate       *float64 `json:"max_rate"`
	AvailableDate string   `json:"available_date"`
}

// SearchHandler godoc
// @Summary  Busca providers activos por radio, ordenados por distancia
// @Tags     providers
// @Accept   json
// @Produce  json
// @Success  200 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /providers/search [post]
func SearchHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.UserID(r.Context()); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req searchRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		matches, err := svc.Search(r.Context(), SearchQuery{
			Latitude:      req.Latitude,
			Longitude:     req.Longitude,
			RadiusKm:      req.Radius,
			ServiceType:   req.ServiceType,
			PetType:       req.PetType,
			PetSize:       req.PetSize,
			MinRating:     req.MinRating,
			MaxRate:       req.MaxRate,
			AvailableDate: req.AvailableDate,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchResponse{
				providerResponse: toProviderResponse(m.Provider),
				Profile:          m.Profile,
				Distance:         m.DistanceKm,
			})
		}
		httpx.List(w, out, len(out))
	}
}
