package reviews

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
	r.Post("/requests/{requestID}/reviews", CreateHandler(svc, log))
	r.Get("/profiles/{profileID}/reviews", listReviewsHandler(svc, log))
}

type createReviewRequest struct {
	// RequestID sólo se usa en la ruta /functions/v1.
	RequestID string `json:"request_id"`
	Rating    *int   `json:"rating"`
	Title     string `json:"title" validate:"max=200"`
	Comment   string `json:"comment" validate:"max=5000"`
	IsPublic  *bool  `json:"is_public"`
}

type reviewResponse struct {
	ID           string         `json:"id"`
	RequestID    string         `json:"request_id"`
	ReviewerID   string         `json:"reviewer_id"`
	ReviewedID   string         `json:"reviewed_id"`
	Rating       int            `json:"rating"`
	Title        string         `json:"title,omitempty"`
	Comment      string         `json:"comment,omitempty"`
	ReviewerType ReviewerType   `json:"reviewer_type"`
	IsPublic     bool           `json:"is_public"`
	CreatedAt    time.Time      `json:"created_at"`
	Reviewer     *profiles.Card `json:"reviewer,omitempty"`
}

func toResponse(rv Review) reviewResponse {
	return reviewResponse{
		ID:           rv.ID,
		RequestID:    rv.RequestID,
		ReviewerID:   rv.ReviewerID,
		ReviewedID:   rv.ReviewedID,
		Rating:       rv.Rating,
		Title:        rv.Title,
		Comment:      rv.Comment,
		ReviewerType: rv.ReviewerType,
		IsPublic:     rv.IsPublic,
		CreatedAt:    rv.CreatedAt,
		Reviewer:     rv.Reviewer,
	}
}

// CreateHandler godoc
// @Summary  Avalia a outra parte de uma solicitação concluída
// @Tags     reviews
// @Accept   json
// @Produce  json
// @Success  201 {object} httpx.Envelope
// @Failure  400 {object} httpx.Envelope
// @Router   /requests/{requestID}/reviews [post]
func CreateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		var req createReviewRequest
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

		rv, err := svc.Create(r.Context(), uid, CreateInput{
			RequestID: requestID,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
			IsPublic:  req.IsPublic,
		})
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}
		httpx.OK(w, http.StatusCreated, toResponse(rv), "Avaliação criada com sucesso")
	}
}

func listReviewsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := middleware.UserID(r.Context())
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		items, err := svc.ListForUser(r.Context(), uid, chi.URLParam(r, "profileID"))
		if err != nil {
			httpx.Fail(w, r, log, err)
			return
		}

		out := make([]reviewResponse, 0, len(items))
		for _, rv := range items {
			out = append(out, toResponse(rv))
		}
		httpx.List(w, out, len(out))
	}
}
