// Package geo calcula distancias de gran círculo y filtra/ordena candidatos por radio.
package geo

import (
	"math"
	"sort"
)

const EarthRadiusKm = 6371.0

type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// HaversineKm devuelve la distancia entre a y b sobre una esfera de radio EarthRadiusKm.
func HaversineKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Round1 redondea a un decimal (la distancia que se expone y se compara contra el radio).
func Round1(km float64) float64 {
	return math.Round(km*10) / 10
}

type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// Locator extrae la ubicación de un candidato; ok=false lo descarta sin error.
type Locator[T any] func(T) (Point, bool)

// Within devuelve los candidatos con distancia redondeada <= radiusKm,
// ordenados por distancia ascendente y, en empate, por key ascendente.
func Within[T any](origin Point, radiusKm float64, items []T, locate Locator[T], key func(T) string) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		p, ok := locate(it)
		if !ok {
			continue
		}
		d := Round1(HaversineKm(origin, p))
		if d > radiusKm {
			continue
		}
		out = append(out, Ranked[T]{Item: it, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return key(out[i].Item) < key(out[j].Item)
	})
	return out
}
