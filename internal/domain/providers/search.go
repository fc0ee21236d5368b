package providers

import (
	"strings"
	"time"

	"petcare-marketplace/internal/domain/apperr"
	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/geo"
)

const (
	DefaultSearchRadiusKm = 10.0
	DefaultMinRating      = 0.0
	DefaultMaxRate        = 1000.0
)

// SearchQuery es lo que llega del cliente; los filtros vacíos no aplican.
type SearchQuery struct {
	Latitude    *float64
	Longitude   *float64
	RadiusKm    *float64
	ServiceType string
	PetType     string
	PetSize     string
	MinRating   *float64
	MaxRate     *float64
	// AvailableDate (YYYY-MM-DD) filtra por día de la semana disponible.
	AvailableDate string
}

// Filter es la query normalizada con defaults aplicados.
type Filter struct {
	Origin      geo.Point
	RadiusKm    float64
	ServiceType ServiceType
	PetType     pets.PetType
	PetSize     pets.Size
	MinRating   float64
	MaxRate     float64
	Weekday     int // ISO: 1=lunes .. 7=domingo; 0 = sin filtro
}

func (q SearchQuery) Normalize() (Filter, error) {
	if q.Latitude == nil || q.Longitude == nil {
		return Filter{}, apperr.Validation("Latitude and longitude are required")
	}
	if *q.Latitude < -90 || *q.Latitude > 90 || *q.Longitude < -180 || *q.Longitude > 180 {
		return Filter{}, apperr.Validation("Latitude or longitude out of range")
	}

	f := Filter{
		Origin:      geo.Point{Lat: *q.Latitude, Lon: *q.Longitude},
		RadiusKm:    DefaultSearchRadiusKm,
		ServiceType: ServiceType(strings.TrimSpace(q.ServiceType)),
		PetType:     pets.PetType(strings.TrimSpace(q.PetType)),
		PetSize:     pets.Size(strings.TrimSpace(q.PetSize)),
		MinRating:   DefaultMinRating,
		MaxRate:     DefaultMaxRate,
	}
	if q.RadiusKm != nil {
		if *q.RadiusKm <= 0 {
			return Filter{}, apperr.Validation("radius must be positive")
		}
		f.RadiusKm = *q.RadiusKm
	}
	if q.MinRating != nil {
		f.MinRating = *q.MinRating
	}
	if q.MaxRate != nil {
		f.MaxRate = *q.MaxRate
	}
	if d := strings.TrimSpace(q.AvailableDate); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return Filter{}, apperr.Validation("available_date must be YYYY-MM-DD")
		}
		f.Weekday = isoWeekday(t)
	}
	return f, nil
}

// Matches aplica los filtros de atributos (no la distancia).
// Un provider sin hourly_rate nunca pasa el tope de tarifa.
func (f Filter) Matches(p Provider) bool {
	if !p.IsActive {
		return false
	}
	if f.ServiceType != "" && !p.Offers(f.ServiceType) {
		return false
	}
	if f.PetType != "" && !p.Accepts(f.PetType) {
		return false
	}
	if f.PetSize != "" && !p.Handles(f.PetSize) {
		return false
	}
	if p.AverageRating < f.MinRating {
		return false
	}
	if p.HourlyRate == nil || *p.HourlyRate > f.MaxRate {
		return false
	}
	// Sin días cargados se asume disponible siempre.
	if f.Weekday != 0 && len(p.AvailableWeekdays) > 0 && !p.AvailableOn(f.Weekday) {
		return false
	}
	return true
}

func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// Rank filtra por atributos y radio y ordena por distancia (empate: id de provider).
func Rank(f Filter, candidates []Candidate) []Match {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.Matches(c.Provider) {
			eligible = append(eligible, c)
		}
	}

	ranked := geo.Within(f.Origin, f.RadiusKm, eligible,
		func(c Candidate) (geo.Point, bool) { return c.Profile.Location() },
		func(c Candidate) string { return c.Provider.ID },
	)

	out := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Match{Provider: r.Item.Provider, Profile: r.Item.Profile, DistanceKm: r.DistanceKm})
	}
	return out
}
