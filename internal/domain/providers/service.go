package providers

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/platform/metrics"
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

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

type ProfileInput struct {
	BusinessName      *string
	Description       *string
	ExperienceYears   *int
	HourlyRate        *float64
	Services          []string
	PetTypes          []string
	PetSizes          []string
	AvailableWeekdays []int
	AvailableStart    *string
	AvailableEnd      *string
	ServiceRadiusKm   *float64
	IsActive          *bool
}

// Register convierte al caller en provider. Un perfil => una ficha.
func (s *Service) Register(ctx context.Context, callerID string, in ProfileInput) (Provider, error) {
	if strings.TrimSpace(callerID) == "" {
		return Provider{}, apperr.AuthRequired()
	}
	if in.BusinessName == nil || strings.TrimSpace(*in.BusinessName) == "" {
		return Provider{}, apperr.Validation("business_name is required")
	}

	if _, err := s.repo.GetByProfileID(ctx, callerID); err == nil {
		return Provider{}, apperr.Duplicate("Provider profile already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Provider{}, err
	}

	now := s.now()
	p := Provider{
		ID:              uuid.NewString(),
		ProfileID:       callerID,
		ServiceRadiusKm: DefaultServiceRadiusKm,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := apply(&p, in); err != nil {
		return Provider{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

// Get devuelve un provider activo; los inactivos no existen para terceros.
func (s *Service) Get(ctx context.Context, id string) (Provider, error) {
	if strings.TrimSpace(id) == "" {
		return Provider{}, apperr.Validation("provider id is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Provider{}, apperr.NotFound("Service provider not found")
		}
		return Provider{}, err
	}
	if !p.IsActive {
		return Provider{}, apperr.NotFound("Service provider not found")
	}
	return p, nil
}

func (s *Service) GetMine(ctx context.Context, callerID string) (Provider, error) {
	p, err := s.repo.GetByProfileID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Provider{}, apperr.NotFound("Service provider not found")
		}
		return Provider{}, err
	}
	return p, nil
}

func (s *Service) UpdateMine(ctx context.Context, callerID string, in ProfileInput) (Provider, error) {
	p, err := s.GetMine(ctx, callerID)
	if err != nil {
		return Provider{}, err
	}
	if in.BusinessName != nil && strings.TrimSpace(*in.BusinessName) == "" {
		return Provider{}, apperr.Validation("business_name cannot be empty")
	}
	if err := apply(&p, in); err != nil {
		return Provider{}, err
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

// Search busca providers activos alrededor del origen, ordenados por distancia.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Match, error) {
	f, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ListCandidates(ctx, f)
	if err != nil {
		return nil, err
	}

	out := Rank(f, candidates)
	metrics.ProviderSearch(len(out))
	return out, nil
}

func (s *Service) IncrementBookings(ctx context.Context, id string) error {
	return s.repo.IncrementBookings(ctx, id)
}

func apply(p *Provider, in ProfileInput) error {
	if in.BusinessName != nil {
		p.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 {
			return apperr.Validation("experience_years cannot be negative")
		}
		p.ExperienceYears = *in.ExperienceYears
	}
	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return apperr.Validation("hourly_rate cannot be negative")
		}
		p.HourlyRate = in.HourlyRate
	}

	if in.Services != nil {
		out := make([]ServiceType, 0, len(in.Services))
		for _, v := range in.Services {
			t := ServiceType(strings.ToLower(strings.TrimSpace(v)))
			if !t.Valid() {
				return apperr.Validation("invalid service type %q", v)
			}
			out = append(out, t)
		}
		p.Services = out
	}
	if in.PetTypes != nil {
		out := make([]pets.PetType, 0, len(in.PetTypes))
		for _, v := range in.PetTypes {
			t := pets.PetType(strings.ToLower(strings.TrimSpace(v)))
			if !t.Valid() {
				return apperr.Validation("invalid pet type %q", v)
			}
			out = append(out, t)
		}
		p.PetTypes = out
	}
	if in.PetSizes != nil {
		out := make([]pets.Size, 0, len(in.PetSizes))
		for _, v := range in.PetSizes {
			sz := pets.Size(strings.ToLower(strings.TrimSpace(v)))
			if !sz.Valid() {
				return apperr.Validation("invalid pet size %q", v)
			}
			out = append(out, sz)
		}
		p.PetSizes = out
	}
	if in.AvailableWeekdays != nil {
		for _, d := range in.AvailableWeekdays {
			if d < 1 || d > 7 {
				return apperr.Validation("available_weekdays must be between 1 and 7")
			}
		}
		p.AvailableWeekdays = append([]int(nil), in.AvailableWeekdays...)
	}
	if in.AvailableStart != nil {
		if v := strings.TrimSpace(*in.AvailableStart); v != "" && !hhmm.MatchString(v) {
			return apperr.Validation("available_hours_start must be HH:MM")
		}
		p.AvailableStart = strings.TrimSpace(*in.AvailableStart)
	}
	if in.AvailableEnd != nil {
		if v := strings.TrimSpace(*in.AvailableEnd); v != "" && !hhmm.MatchString(v) {
			return apperr.Validation("available_hours_end must be HH:MM")
		}
		p.AvailableEnd = strings.TrimSpace(*in.AvailableEnd)
	}
	if in.ServiceRadiusKm != nil {
		if *in.ServiceRadiusKm <= 0 {
			return apperr.Validation("service_radius must be positive")
		}
		p.ServiceRadiusKm = *in.ServiceRadiusKm
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}
