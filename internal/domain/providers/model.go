package providers

import (
	"time"

	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/domain/profiles"
)

// ServiceType define los servicios ofrecidos.
// @Enum pet_sitting, dog_walking, pet_boarding, grooming, training, veterinary_care
type ServiceType string

const (
	ServicePetSitting     ServiceType = "pet_sitting"
	ServiceDogWalking     ServiceType = "dog_walking"
	ServicePetBoarding    ServiceType = "pet_boarding"
	ServiceGrooming       ServiceType = "grooming"
	ServiceTraining       ServiceType = "training"
	ServiceVeterinaryCare ServiceType = "veterinary_care"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServicePetSitting, ServiceDogWalking, ServicePetBoarding,
		ServiceGrooming, ServiceTraining, ServiceVeterinaryCare:
		return true
	}
	return false
}

const DefaultServiceRadiusKm = 10

// Provider es la ficha de prestador. Un perfil tiene a lo sumo uno.
type Provider struct {
	ID        string
	ProfileID string

	BusinessName    string
	Description     string
	ExperienceYears int
	HourlyRate      *float64

	Services          []ServiceType
	PetTypes          []pets.PetType
	PetSizes          []pets.Size
	AvailableWeekdays []int // 1=lunes .. 7=domingo
	AvailableStart    string
	AvailableEnd      string
	ServiceRadiusKm   float64

	BackgroundCheckVerified bool
	InsuranceVerified       bool

	// Mantenidos por la base (trigger de reviews) y por Respond.
	AverageRating float64
	TotalReviews  int
	TotalBookings int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Provider) Offers(t ServiceType) bool {
	for _, s := range p.Services {
		if s == t {
			return true
		}
	}
	return false
}

func (p Provider) Accepts(t pets.PetType) bool {
	for _, v := range p.PetTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (p Provider) Handles(sz pets.Size) bool {
	for _, v := range p.PetSizes {
		if v == sz {
			return true
		}
	}
	return false
}

func (p Provider) AvailableOn(isoWeekday int) bool {
	for _, d := range p.AvailableWeekdays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

// Candidate es un provider activo junto a la tarjeta pública de su perfil.
type Candidate struct {
	Provider Provider
	Profile  profiles.Card
}

// Match es un resultado de búsqueda con la distancia ya redondeada a 1 decimal.
type Match struct {
	Provider   Provider
	Profile    profiles.Card
	DistanceKm float64
}
