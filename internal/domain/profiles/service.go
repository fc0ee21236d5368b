package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/ports/auth"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Ensure crea el perfil en el primer request autenticado, con los datos del token.
// Equivale al trigger de signup del identity provider.
func (s *Service) Ensure(ctx context.Context, c auth.Claims) (Profile, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return Profile{}, apperr.AuthRequired()
	}

	p, err := s.repo.GetByID(ctx, c.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return Profile{}, err
	}

	userType := UserType(strings.ToLower(strings.TrimSpace(c.UserType)))
	if !userType.Valid() {
		userType = UserTypeOwner
	}

	now := s.now()
	p = Profile{
		ID:        c.UserID,
		Email:     strings.TrimSpace(c.Email),
		FullName:  strings.TrimSpace(c.FullName),
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// Dos requests concurrentes del mismo usuario: gana el primero.
		if errors.Is(err, apperr.ErrDuplicate) {
			return s.repo.GetByID(ctx, c.UserID)
		}
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, apperr.Validation("profile id is required")
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	// Punteros para PATCH: nil = no tocar.
	FullName   *string
	Phone      *string
	AvatarURL  *string
	UserType   *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64
}

func (s *Service) Update(ctx context.Context, callerID string, in UpdateInput) (Profile, error) {
	p, err := s.repo.GetByID(ctx, callerID)
	if err != nil {
		return Profile{}, err
	}

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&p.FullName, in.FullName)
	setStr(&p.Phone, in.Phone)
	setStr(&p.AvatarURL, in.AvatarURL)
	setStr(&p.Address, in.Address)
	setStr(&p.City, in.City)
	setStr(&p.State, in.State)
	setStr(&p.PostalCode, in.PostalCode)

	if in.UserType != nil {
		t := UserType(strings.ToLower(strings.TrimSpace(*in.UserType)))
		if !t.Valid() {
			return Profile{}, apperr.Validation("user_type must be owner, provider or both")
		}
		p.UserType = t
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return Profile{}, apperr.Validation("latitude out of range")
		}
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return Profile{}, apperr.Validation("longitude out of range")
		}
		p.Longitude = in.Longitude
	}

	_, hasLocation := p.Location()
	p.ProfileCompleted = p.FullName != "" && p.Phone != "" && p.City != "" && hasLocation
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
