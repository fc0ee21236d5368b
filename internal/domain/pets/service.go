package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"petcare-marketplace/internal/domain/apperr"
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

type CreateInput struct {
	Name    string
	PetType string
	Breed   string
	Size    string
	Weight  *float64
	Age     *int
	Gender  string

	Description         string
	MedicalConditions   string
	Medications         string
	DietaryRestrictions string
	BehavioralNotes     string
	EmergencyContact    string
	VeterinarianContact string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, apperr.AuthRequired()
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, apperr.Validation("name is required")
	}

	petType, err := parsePetType(in.PetType)
	if err != nil {
		return Pet{}, err
	}
	size, err := parseSize(in.Size)
	if err != nil {
		return Pet{}, err
	}
	gender, err := parseGender(in.Gender)
	if err != nil {
		return Pet{}, err
	}
	if err := validateMeasures(in.Weight, in.Age); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		Name:                strings.TrimSpace(in.Name),
		PetType:             petType,
		Breed:               strings.TrimSpace(in.Breed),
		Size:                size,
		Weight:              in.Weight,
		Age:                 in.Age,
		Gender:              gender,
		Description:         strings.TrimSpace(in.Description),
		MedicalConditions:   strings.TrimSpace(in.MedicalConditions),
		Medications:         strings.TrimSpace(in.Medications),
		DietaryRestrictions: strings.TrimSpace(in.DietaryRestrictions),
		BehavioralNotes:     strings.TrimSpace(in.BehavioralNotes),
		EmergencyContact:    strings.TrimSpace(in.EmergencyContact),
		VeterinarianContact: strings.TrimSpace(in.VeterinarianContact),
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListActiveByOwner(ctx, ownerID)
}

// Get sólo para el owner. Una mascota desactivada se trata como inexistente.
func (s *Service) Get(ctx context.Context, callerID, petID string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Pet{}, apperr.NotFound("Pet not found")
		}
		return Pet{}, err
	}
	if !p.IsActive {
		return Pet{}, apperr.NotFound("Pet not found")
	}
	if p.OwnerID != callerID {
		return Pet{}, apperr.PermissionDenied("Access denied")
	}
	return p, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	PetType *string
	Breed   *string
	Size    *string
	Weight  *float64
	Age     *int
	Gender  *string

	Description         *string
	MedicalConditions   *string
	Medications         *string
	DietaryRestrictions *string
	BehavioralNotes     *string
	EmergencyContact    *string
	VeterinarianContact *string
}

func (s *Service) Update(ctx context.Context, callerID, petID string, in UpdateInput) (Pet, error) {
	p, err := s.Get(ctx, callerID, petID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, apperr.Validation("name cannot be empty")
		}
		p.Name = name
	}
	if in.PetType != nil {
		if p.PetType, err = parsePetType(*in.PetType); err != nil {
			return Pet{}, err
		}
	}
	if in.Size != nil {
		if p.Size, err = parseSize(*in.Size); err != nil {
			return Pet{}, err
		}
	}
	if in.Gender != nil {
		if p.Gender, err = parseGender(*in.Gender); err != nil {
			return Pet{}, err
		}
	}
	if err := validateMeasures(in.Weight, in.Age); err != nil {
		return Pet{}, err
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if in.Age != nil {
		p.Age = in.Age
	}

	for dst, v := range map[*string]*string{
		&p.Breed:               in.Breed,
		&p.Description:         in.Description,
		&p.MedicalConditions:   in.MedicalConditions,
		&p.Medications:         in.Medications,
		&p.DietaryRestrictions: in.DietaryRestrictions,
		&p.BehavioralNotes:     in.BehavioralNotes,
		&p.EmergencyContact:    in.EmergencyContact,
		&p.VeterinarianContact: in.VeterinarianContact,
	} {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Deactivate es el borrado lógico: la mascota deja de listarse y de poder reservarse.
func (s *Service) Deactivate(ctx context.Context, callerID, petID string) error {
	p, err := s.Get(ctx, callerID, petID)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = s.now()
	return s.repo.Update(ctx, p)
}

func parsePetType(v string) (PetType, error) {
	t := PetType(strings.ToLower(strings.TrimSpace(v)))
	if t == "" {
		return "", apperr.Validation("pet_type is required")
	}
	if !t.Valid() {
		return "", apperr.Validation("invalid pet_type %q", v)
	}
	return t, nil
}

func parseSize(v string) (Size, error) {
	sz := Size(strings.ToLower(strings.TrimSpace(v)))
	if sz == "" {
		return "", nil
	}
	if !sz.Valid() {
		return "", apperr.Validation("invalid size %q", v)
	}
	return sz, nil
}

func parseGender(v string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(v)))
	if g == "" {
		return GenderUnknown, nil
	}
	if !g.Valid() {
		return "", apperr.Validation("invalid gender %q", v)
	}
	return g, nil
}

func validateMeasures(weight *float64, age *int) error {
	if weight != nil && *weight < 0 {
		return apperr.Validation("weight cannot be negative")
	}
	if age != nil && *age < 0 {
		return apperr.Validation("age cannot be negative")
	}
	return nil
}
