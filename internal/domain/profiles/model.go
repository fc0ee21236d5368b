package profiles

import (
	"time"

	"petcare-marketplace/internal/geo"
)

// UserType indica el rol con el que se registró el usuario.
// @Enum owner, provider, both
type UserType string

const (
	UserTypeOwner    UserType = "owner"
	UserTypeProvider UserType = "provider"
	UserTypeBoth     UserType = "both"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeOwner, UserTypeProvider, UserTypeBoth:
		return true
	}
	return false
}

// Profile es 1:1 con el usuario del identity provider (mismo id). Nunca se borra.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	Phone     string
	AvatarURL string
	UserType  UserType

	Address    string
	City       string
	State      string
	PostalCode string
	Latitude   *float64
	Longitude  *float64

	ProfileCompleted bool
	EmailVerified    bool
	PhoneVerified    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location devuelve la ubicación sólo si ambas coordenadas están cargadas.
func (p Profile) Location() (geo.Point, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *p.Latitude, Lon: *p.Longitude}, true
}

// Card es la vista pública que acompaña a providers, mensajes y reviews.
type Card struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	AvatarURL string   `json:"avatar_url"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (p Profile) Card() Card {
	return Card{
		ID:        p.ID,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		City:      p.City,
		State:     p.State,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

func (c Card) Location() (geo.Point, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *c.Latitude, Lon: *c.Longitude}, true
}
