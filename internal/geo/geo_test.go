package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLng(t *testing.T) {
	p, err := ParseLatLng("34.111745,-118.113491")
	require.NoError(t, err)
	assert.InDelta(t, 34.111745, p.Lat, 1e-9)
	assert.InDelta(t, -118.113491, p.Lng, 1e-9)

	for _, bad := range []string{"", "34.1", "a,b", "91,0", "0,181", "1,2,3"} {
		_, err := ParseLatLng(bad)
		assert.ErrorIs(t, err, ErrInvalidLatLng, bad)
	}
}

func TestValidateUnit(t *testing.T) {
	assert.NoError(t, ValidateUnit("mi"))
	assert.NoError(t, ValidateUnit("km"))
	assert.ErrorIs(t, ValidateUnit("ft"), ErrInvalidUnit)
}

func TestRadiusRadians(t *testing.T) {
	assert.InDelta(t, 1.0, RadiusRadians(EarthRadiusMiles, UnitMiles), 1e-12)
	assert.InDelta(t, 1.0, RadiusRadians(EarthRadiusKm, UnitKilometers), 1e-12)
	assert.InDelta(t, 160.9, ToKilometers(100, UnitMiles), 0.1)
}

func TestDistanceMeters(t *testing.T) {
	la := Point{Lat: 34.0522, Lng: -118.2437}
	sf := Point{Lat: 37.7749, Lng: -122.4194}

	d := DistanceMeters(la, sf)
	assert.InDelta(t, 559_000, d, 5_000)
	assert.InDelta(t, 347, MetersTo(d, UnitMiles), 5)
	assert.InDelta(t, 559, MetersTo(d, UnitKilometers), 5)
	assert.Zero(t, DistanceMeters(la, la))
}
