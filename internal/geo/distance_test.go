package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// north desplaza p hacia el norte km kilómetros (exacto sobre un meridiano).
func north(p Point, km float64) Point {
	return Point{Lat: p.Lat + km/EarthRadiusKm*180/math.Pi, Lon: p.Lon}
}

func TestHaversineKm(t *testing.T) {
	saoPaulo := Point{Lat: -23.55, Lon: -46.63}
	rio := Point{Lat: -22.9068, Lon: -43.1729}

	tests := []struct {
		name      string
		a, b      Point
		expected  float64
		tolerance float64
	}{
		{name: "same point", a: saoPaulo, b: saoPaulo, expected: 0, tolerance: 1e-9},
		{name: "5km north", a: saoPaulo, b: north(saoPaulo, 5), expected: 5, tolerance: 1e-6},
		{name: "sao paulo to rio", a: saoPaulo, b: rio, expected: 361, tolerance: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HaversineKm(tt.a, tt.b), tt.tolerance)
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{{Lat: -23.55, Lon: -46.63}, {Lat: -22.9068, Lon: -43.1729}},
		{{Lat: 40.7128, Lon: -74.0060}, {Lat: 34.0522, Lon: -118.2437}},
		{{Lat: 0, Lon: 179.9}, {Lat: 0, Lon: -179.9}},
	}
	for _, p := range pairs {
		assert.InDelta(t, HaversineKm(p[0], p[1]), HaversineKm(p[1], p[0]), 1e-9)
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 5.0, Round1(4.96))
	assert.Equal(t, 4.9, Round1(4.94))
	assert.Equal(t, 0.0, Round1(0.04))
}

type candidate struct {
	id  string
	loc *Point
}

func locate(c candidate) (Point, bool) {
	if c.loc == nil {
		return Point{}, false
	}
	return *c.loc, true
}

func key(c candidate) string { return c.id }

func TestWithin_FiltersByRadiusAndSorts(t *testing.T) {
	origin := Point{Lat: -23.55, Lon: -46.63}
	near := north(origin, 5)
	far := north(origin, 15)
	mid := north(origin, 2)

	got := Within(origin, 10, []candidate{
		{id: "far", loc: &far},
		{id: "near", loc: &near},
		{id: "nowhere"},
		{id: "mid", loc: &mid},
	}, locate, key)

	require.Len(t, got, 2)
	assert.Equal(t, "mid", got[0].Item.id)
	assert.Equal(t, 2.0, got[0].DistanceKm)
	assert.Equal(t, "near", got[1].Item.id)
	assert.Equal(t, 5.0, got[1].DistanceKm)
}

func TestWithin_TieBreakByKey(t *testing.T) {
	origin := Point{Lat: 10, Lon: 10}
	p := north(origin, 3)

	got := Within(origin, 10, []candidate{
		{id: "b", loc: &p},
		{id: "c", loc: &p},
		{id: "a", loc: &p},
	}, locate, key)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Item.id, got[1].Item.id, got[2].Item.id})
}

func TestWithin_RadiusIsInclusiveOnRoundedDistance(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	edge := north(origin, 10.04) // redondea a 10.0

	got := Within(origin, 10, []candidate{{id: "edge", loc: &edge}}, locate, key)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].DistanceKm)
}
