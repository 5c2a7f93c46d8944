// Package geo holds the spherical helpers behind the tours-within and
// distances endpoints.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	UnitMiles      = "mi"
	UnitKilometers = "km"

	EarthRadiusMiles = 3963.2
	EarthRadiusKm    = 6378.1

	metersToMiles      = 0.000621371
	metersToKilometers = 0.001
)

var (
	ErrInvalidLatLng = errors.New("latlng must be formatted as lat,lng")
	ErrInvalidUnit   = errors.New("unit must be mi or km")
)

type Point struct {
	Lat float64
	Lng float64
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, ErrInvalidLatLng
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidLatLng, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidLatLng, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, ErrInvalidLatLng
	}
	return Point{Lat: lat, Lng: lng}, nil
}

func ValidateUnit(unit string) error {
	if unit != UnitMiles && unit != UnitKilometers {
		return ErrInvalidUnit
	}
	return nil
}

// RadiusRadians converts a distance in unit to radians on the earth sphere.
func RadiusRadians(distance float64, unit string) float64 {
	if unit == UnitMiles {
		return distance / EarthRadiusMiles
	}
	return distance / EarthRadiusKm
}

// ToKilometers converts distance in unit to kilometers.
func ToKilometers(distance float64, unit string) float64 {
	return RadiusRadians(distance, unit) * EarthRadiusKm
}

// MetersTo converts meters into unit.
func MetersTo(meters float64, unit string) float64 {
	if unit == UnitMiles {
		return meters * metersToMiles
	}
	return meters * metersToKilometers
}

// DistanceMeters is the great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * 1000 * math.Asin(math.Min(1, math.Sqrt(h)))
}
