package pets

import "time"

// PetType define las especies aceptadas.
// @Enum dog, cat, bird, rabbit, fish, hamster, other
type PetType string

const (
	PetTypeDog     PetType = "dog"
	PetTypeCat     PetType = "cat"
	PetTypeBird    PetType = "bird"
	PetTypeRabbit  PetType = "rabbit"
	PetTypeFish    PetType = "fish"
	PetTypeHamster PetType = "hamster"
	PetTypeOther   PetType = "other"
)

func (t PetType) Valid() bool {
	switch t {
	case PetTypeDog, PetTypeCat, PetTypeBird, PetTypeRabbit, PetTypeFish, PetTypeHamster, PetTypeOther:
		return true
	}
	return false
}

// Size define el porte.
// @Enum small, medium, large, extra_large
type Size string

const (
	SizeSmall      Size = "small"
	SizeMedium     Size = "medium"
	SizeLarge      Size = "large"
	SizeExtraLarge Size = "extra_large"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}
	return false
}

// Gender define el sexo de la mascota.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// Pet pertenece a un único owner. Borrado lógico vía IsActive.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	PetType PetType
	Breed   string
	Size    Size // opcional
	Weight  *float64
	Age     *int
	Gender  Gender

	Description         string
	MedicalConditions   string
	Medications         string
	DietaryRestrictions string
	BehavioralNotes     string
	EmergencyContact    string
	VeterinarianContact string

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
