package models

import (
	"time"
)

const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour is the parent entity. RatingsAverage and RatingsQuantity are a cached
// aggregate over the tour's reviews and are only written through SetRatings.
type Tour struct {
	ID              string      `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name            string      `json:"name" bson:"name" gorm:"not null;uniqueIndex" validate:"required,min=10,max=40"`
	Slug            string      `json:"slug" bson:"slug" gorm:"index"`
	Duration        float64     `json:"duration" bson:"duration" gorm:"not null" validate:"required,gt=0"`
	MaxGroupSize    int         `json:"maxGroupSize" bson:"maxGroupSize" gorm:"not null" validate:"required,gt=0"`
	Difficulty      string      `json:"difficulty" bson:"difficulty" gorm:"not null" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64     `json:"ratingsAverage" bson:"ratingsAverage" gorm:"not null;default:4.5;index:idx_tours_price_rating,priority:2" validate:"gte=1,lte=5"`
	RatingsQuantity int         `json:"ratingsQuantity" bson:"ratingsQuantity" gorm:"not null;default:0" validate:"gte=0"`
	Price           float64     `json:"price" bson:"price" gorm:"not null;index:idx_tours_price_rating,priority:1" validate:"required,gt=0"`
	PriceDiscount   float64     `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty" validate:"omitempty,gte=0,ltfield=Price"`
	Summary         string      `json:"summary" bson:"summary" gorm:"not null" validate:"required"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string      `json:"imageCover" bson:"imageCover" gorm:"not null" validate:"required"`
	Images          []string    `json:"images" bson:"images" gorm:"serializer:json;type:text"`
	StartDates      []time.Time `json:"startDates" bson:"startDates" gorm:"serializer:json;type:text"`
	SecretTour      bool        `json:"secretTour" bson:"secretTour" gorm:"not null;default:false"`
	StartLocation   Location    `json:"startLocation" bson:"startLocation" gorm:"serializer:json;type:text"`
	Locations       []Location  `json:"locations" bson:"locations" gorm:"serializer:json;type:text" validate:"dive"`
	GuideIDs        []string    `json:"guideIds" bson:"guides" gorm:"column:guides;serializer:json;type:text"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	Version         int         `json:"version" bson:"__v" gorm:"not null;default:0"`

	// Populated on read, never persisted.
	Guides        []UserSummary `json:"guides,omitempty" bson:"-" gorm:"-"`
	Reviews       []Review      `json:"reviews,omitempty" bson:"-" gorm:"-"`
	DurationWeeks float64       `json:"durationWeeks" bson:"-" gorm:"-"`
}

func (Tour) TableName() string {
	return "tours"
}

// Decorate fills derived read-only values after a load.
func (t *Tour) Decorate() {
	t.DurationWeeks = t.Duration / 7
}

// TourPatch carries the mutable subset of a tour. Ratings are not part of it:
// they are derived from reviews.
type TourPatch struct {
	Name          *string     `json:"name,omitempty"`
	Duration      *float64    `json:"duration,omitempty"`
	MaxGroupSize  *int        `json:"maxGroupSize,omitempty"`
	Difficulty    *string     `json:"difficulty,omitempty"`
	Price         *float64    `json:"price,omitempty"`
	PriceDiscount *float64    `json:"priceDiscount,omitempty"`
	Summary       *string     `json:"summary,omitempty"`
	Description   *string     `json:"description,omitempty"`
	ImageCover    *string     `json:"imageCover,omitempty"`
	Images        []string    `json:"images,omitempty"`
	StartDates    []time.Time `json:"startDates,omitempty"`
	SecretTour    *bool       `json:"secretTour,omitempty"`
	StartLocation *Location   `json:"startLocation,omitempty"`
	Locations     []Location  `json:"locations,omitempty"`
	GuideIDs      []string    `json:"guideIds,omitempty"`
}

// Apply copies the set fields of p onto t. Slug is recomputed by the caller.
func (p TourPatch) Apply(t *Tour) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.MaxGroupSize != nil {
		t.MaxGroupSize = *p.MaxGroupSize
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.PriceDiscount != nil {
		t.PriceDiscount = *p.PriceDiscount
	}
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ImageCover != nil {
		t.ImageCover = *p.ImageCover
	}
	if p.Images != nil {
		t.Images = p.Images
	}
	if p.StartDates != nil {
		t.StartDates = p.StartDates
	}
	if p.SecretTour != nil {
		t.SecretTour = *p.SecretTour
	}
	if p.StartLocation != nil {
		t.StartLocation = *p.StartLocation
	}
	if p.Locations != nil {
		t.Locations = p.Locations
	}
	if p.GuideIDs != nil {
		t.GuideIDs = p.GuideIDs
	}
}

// TourStats is one difficulty bucket of the tour statistics report.
type TourStats struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	NumTours   int     `json:"numTours" bson:"numTours"`
	NumRatings int     `json:"numRatings" bson:"numRatings"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating"`
	AvgPrice   float64 `json:"avgPrice" bson:"avgPrice"`
	MinPrice   float64 `json:"minPrice" bson:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" bson:"maxPrice"`
}

// MonthlyPlan lists the tours starting in one month.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}

// TourDistance is a tour name with its start location's distance from a point.
type TourDistance struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Distance float64 `json:"distance" bson:"distance"`
}
