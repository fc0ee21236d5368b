package pets

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/", listPetsHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deactivatePetHandler(svc, log))
	})
}

type createPetRequest struct {
	Name    string   `json:"name" validate:"required"`
	PetType string   `json:"pet_type" validate:"required"`
	Breed   string   `json:"breed"`
	Size    string   `json:"size"`
	Weight  *float64 `json:"weight"`
	Age     *int     `json:"age"`
	Gender  string   `json:"gender"`

	Description         string `json:"description"`
	MedicalConditions   string `json:"medical_conditions"`
	Medications         string `json:"medications"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	BehavioralNotes     string `json:"behavioral_notes"`
	EmergencyContact    string `json:"emergency_contact"`
	VeterinarianContact string `json:"veterinarian_contact"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string  `json:"name"`
	PetType *string  `json:"pet_type"`
	Breed   *string  `json:"breed"`
	Size    *string  `json:"size"`
	Weight  *float64 `json:"weight"`
	Age     *int     `json:"age"`
	Gender  *string  `json:"gender"`

	Description         *string `json:"description"`
	MedicalConditions   *string `json:"medical_conditions"`
	Medications         *string `json:"medications"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	BehavioralNotes     *string `json:"behavioral_notes"`
	EmergencyContact    *string `json:"emergency_contact"`
	VeterinarianContact *string `json:"veterinarian_contact"`
}

type petResponse struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"owner_id"`
	Name    string   `json:"name"`
	PetType PetType  `json:"pet_type"`
	Breed   string   `json:"breed"`
	Size    Size     `json:"size,omitempty"`
	Weight  *float64 `json:"weight"`
	Age     *int     `json:"age"`
	Gender  Gender   `json:"gender"`

	Description         string `json:"description"`
	MedicalConditions   string `json:"medical_conditions"`
	Medications         string `json:"medications"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	BehavioralNotes     string `json:"behavioral_notes"`
	EmergencyContact    string `json:"emergency_contact"`
	VeterinarianContact string `json:"veterinarian_contact"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                  p.ID,
		OwnerID:             p.OwnerID,
		Name:                p.Name,
		PetType:             p.PetType,
		Breed:               p.Breed,
		Size:                p.Size,
		Weight:              p.Weight,
		Age:                 p.Age,
		Gender:              p.Gender,
		Description:         p.Description,
		MedicalConditions:   p.MedicalConditions,
		Medications:         p.Medications,
		DietaryRestrictions: p.DietaryRestrictions,
		BehavioralNotes:     p.BehavioralNotes,
		EmergencyContact:    p.EmergencyContact,
		VeterinarianContact: p.VeterinarianContact,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// createPetHandler godoc
// @Summary  Registra una mascota del usuario autenticado
// @Tags     pets
// @Accept   json
// @Produce  json
// @Success  201 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		if err := httpx.Validate(req, "Missing required fields"); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Create(r.Context(), uid, CreateInput{
			Name:                req.Name,
			PetType:             req.PetType,
			Breed:               req.Breed,
			Size:                req.Size,
			Weight:              req.Weight,
			Age:                 req.Age,
			Gender:              req.Gender,
			Description:         req.Description,
			MedicalConditions:   req.MedicalConditions,
			Medications:         req.Medications,
			DietaryRestrictions: req.DietaryRestrictions,
			BehavioralNotes:     req.BehavioralNotes,
			EmergencyContact:    req.EmergencyContact,
			VeterinarianContact: req.VeterinarianContact,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		httpx.OK(w, http.StatusCreated, toPetResponse(p), "")
	}
}

// listPetsHandler godoc
// @Summary  Lista las mascotas activas del usuario
// @Tags     pets
// @Produce  json
// @Success  200 {object} httpx.Envelope
// @Router   /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		items, err := svc.ListMine(r.Context(), uid)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.List(w, out, len(out))
	}
}

func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Get(r.Context(), uid, chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toPetResponse(p), "")
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		p, err := svc.Update(r.Context(), uid, chi.URLParam(r, "petID"), UpdateInput{
			Name:                req.Name,
			PetType:             req.PetType,
			Breed:               req.Breed,
			Size:                req.Size,
			Weight:              req.Weight,
			Age:                 req.Age,
			Gender:              req.Gender,
			Description:         req.Description,
			MedicalConditions:   req.MedicalConditions,
			Medications:         req.Medications,
			DietaryRestrictions: req.DietaryRestrictions,
			BehavioralNotes:     req.BehavioralNotes,
			EmergencyContact:    req.EmergencyContact,
			VeterinarianContact: req.VeterinarianContact,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toPetResponse(p), "")
	}
}

func deactivatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		if err := svc.Deactivate(r.Context(), uid, chi.URLParam(r, "petID")); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, nil, "Pet removido com sucesso")
	}
}
