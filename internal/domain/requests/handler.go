package requests

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/requests", func(rr chi.Router) {
		rr.Post("/", CreateHandler(svc, log))
		rr.Get("/", listRequestsHandler(svc, log))
		rr.Get("/{requestID}", getRequestHandler(svc, log))
		rr.Post("/{requestID}/respond", RespondHandler(svc, log))
		rr.Post("/{requestID}/start", startHandler(svc, log))
		rr.Post("/{requestID}/complete", completeHandler(svc, log))
		rr.Post("/{requestID}/cancel", cancelHandler(svc, log))
	})
}

type createRequestRequest struct {
	ProviderID          string `json:"provider_id"`
	PetID               string `json:"pet_id"`
	ServiceType         string `json:"service_type"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SpecialInstructions string `json:"special_instructions"`
	EmergencyContact    string `json:"emergency_contact"`
}

type respondRequest struct {
	// RequestID sólo se usa en la ruta /functions/v1; en /requests/{id} viene del path.
	RequestID     string `json:"request_id"`
	Action        string `json:"action"`
	ProviderNotes string `json:"provider_notes"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type requestResponse struct {
	ID                  string                `json:"id"`
	OwnerID             string                `json:"owner_id"`
	ProviderID          string                `json:"provider_id"`
	ProviderUserID      string                `json:"provider_user_id"`
	PetID               string                `json:"pet_id"`
	ServiceType         providers.ServiceType `json:"service_type"`
	StartDate           string                `json:"start_date"`
	EndDate             string                `json:"end_date"`
	StartTime           string                `json:"start_time"`
	EndTime             string                `json:"end_time"`
	HourlyRate          *float64              `json:"hourly_rate"`
	TotalHours          float64               `json:"total_hours"`
	TotalAmount         float64               `json:"total_amount"`
	SpecialInstructions string                `json:"special_instructions"`
	EmergencyContact    string                `json:"emergency_contact"`
	Status              Status                `json:"status"`
	RequestedAt         time.Time             `json:"requested_at"`
	AcceptedAt          *time.Time            `json:"accepted_at"`
	StartedAt           *time.Time            `json:"started_at"`
	CompletedAt         *time.Time            `json:"completed_at"`
	CancelledAt         *time.Time            `json:"cancelled_at"`
	ProviderNotes       string                `json:"provider_notes"`
	OwnerNotes          string                `json:"owner_notes"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func toRequestResponse(r ServiceRequest) requestResponse {
	return requestResponse{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		ProviderID:          r.ProviderID,
		ProviderUserID:      r.ProviderUserID,
		PetID:               r.PetID,
		ServiceType:         r.ServiceType,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		HourlyRate:          r.HourlyRate,
		TotalHours:          r.TotalHours,
		TotalAmount:         r.TotalAmount,
		SpecialInstructions: r.SpecialInstructions,
		EmergencyContact:    r.EmergencyContact,
		Status:              r.Status,
		RequestedAt:         r.RequestedAt,
		AcceptedAt:          r.AcceptedAt,
		StartedAt:           r.StartedAt,
		CompletedAt:         r.CompletedAt,
		CancelledAt:         r.CancelledAt,
		ProviderNotes:       r.ProviderNotes,
		OwnerNotes:          r.OwnerNotes,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// CreateHandler godoc
// @Summary  Crea una solicitud de servicio (owner)
// @Tags     requests
// @Accept   json
// @Produce  json
// @Success  201 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /requests [post]
func CreateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req createRequestRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		sr, err := svc.Create(r.Context(), uid, CreateInput{
			ProviderID:          req.ProviderID,
			PetID:               req.PetID,
			ServiceType:         req.ServiceType,
			StartDate:           req.StartDate,
			EndDate:             req.EndDate,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			SpecialInstructions: req.SpecialInstructions,
			EmergencyContact:    req.EmergencyContact,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusCreated, toRequestResponse(sr), "Solicitação criada com sucesso")
	}
}

// listRequestsHandler godoc
// @Summary  Solicitaciones del usuario como owner y como provider
// @Tags     requests
// @Produce  json
// @Param    status query string false "filtra por estado"
// @Param    role   query string false "owner | provider"
// @Success  200 {object} httpx.Envelope
// @Router   /requests [get]
func listRequestsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), uid, ListFilter{
			Status: Status(q.Get("status")),
			Role:   q.Get("role"),
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, sr := range items {
			out = append(out, toRequestResponse(sr))
		}
		httpx.List(w, out, len(out))
	}
}

func getRequestHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		sr, err := svc.Get(r.Context(), uid, chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toRequestResponse(sr), "")
	}
}

// RespondHandler godoc
// @Summary  El provider acepta o rechaza una solicitud pendiente
// @Tags     requests
// @Accept   json
// @Produce  json
// @Success  200 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /requests/{requestID}/respond [post]
func RespondHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req respondRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		requestID := chi.URLParam(r, "requestID")
		if requestID == "" {
			requestID = req.RequestID
		}
		if requestID == "" || req.Action == "" {
			httpx.Fail(w, r, log, apperr.Validation("Missing required fields"))
			return
		}

		sr, err := svc.Respond(r.Context(), uid, requestID, req.Action, req.ProviderNotes)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		msg := "Solicitação rejeitada com sucesso"
		if sr.Status == StatusAccepted {
			msg = "Solicitação aceita com sucesso"
		}
		httpx.OK(w, http.StatusOK, toRequestResponse(sr), msg)
	}
}

func startHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		sr, err := svc.Start(r.Context(), uid, chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toRequestResponse(sr), "Serviço iniciado")
	}
}

func completeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		sr, err := svc.Complete(r.Context(), uid, chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toRequestResponse(sr), "Serviço concluído")
	}
}

func cancelHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req notesRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		sr, err := svc.Cancel(r.Context(), uid, chi.URLParam(r, "requestID"), req.Notes)
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusOK, toRequestResponse(sr), "Solicitação cancelada")
	}
}
