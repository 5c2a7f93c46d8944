package models

import "github.com/princeprakhar/tours-backend/internal/geo"

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"omitempty,len=2"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

func NewPoint(lng, lat float64) Location {
	return Location{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Point returns the location as a geo.Point; ok is false when the
// coordinates are missing.
func (l Location) Point() (geo.Point, bool) {
	if len(l.Coordinates) != 2 {
		return geo.Point{}, false
	}
	return geo.Point{Lng: l.Coordinates[0], Lat: l.Coordinates[1]}, true
}
