package reviews

import (
	"time"

	"petcare-marketplace/internal/domain/profiles"
)

// ReviewerType indica desde qué lado se escribió la review.
// @Enum owner, provider
type ReviewerType string

const (
	ReviewerOwner    ReviewerType = "owner"
	ReviewerProvider ReviewerType = "provider"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review es única por (request, reviewer).
type Review struct {
	ID           string
	RequestID    string
	ReviewerID   string
	ReviewedID   string
	Rating       int
	Title        string
	Comment      string
	ReviewerType ReviewerType
	IsPublic     bool
	CreatedAt    time.Time

	// Reviewer se completa al crear y al listar; no se persiste.
	Reviewer *profiles.Card
}
