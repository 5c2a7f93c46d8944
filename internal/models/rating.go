package models

import (
	"fmt"
	"math"
)

const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// RatingStats is the raw grouping aggregate over one tour's reviews.
type RatingStats struct {
	TourID string
	Count  int
	Mean   float64
}

// RatingSummary is the cached aggregate stored on a tour.
type RatingSummary struct {
	Quantity int     `json:"ratingsQuantity"`
	Average  float64 `json:"ratingsAverage"`
}

// Summary turns raw stats into the stored aggregate. This is the single
// place the one-decimal rounding happens; stores write the value as given.
func (s RatingStats) Summary() RatingSummary {
	if s.Count <= 0 {
		return RatingSummary{Quantity: DefaultRatingsQuantity, Average: DefaultRatingsAverage}
	}
	return RatingSummary{Quantity: s.Count, Average: RoundRating(s.Mean)}
}

func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// Validate enforces the tour field constraints on an aggregate before it is
// written.
func (s RatingSummary) Validate() error {
	var fields []FieldError
	if s.Quantity < 0 {
		fields = append(fields, FieldError{Field: "ratingsQuantity", Message: fmt.Sprintf("must be >= 0, got %d", s.Quantity)})
	}
	if math.IsNaN(s.Average) || s.Average < 1 || s.Average > 5 {
		fields = append(fields, FieldError{Field: "ratingsAverage", Message: fmt.Sprintf("must be within [1,5], got %v", s.Average)})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
