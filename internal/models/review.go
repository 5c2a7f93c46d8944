package models

import (
	"time"
)

// Review is the child entity. At most one review exists per (Tour, User);
// the pair carries a unique index in every store.
type Review struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Review    string    `json:"review" bson:"review" gorm:"not null" validate:"required,min=10,max=150"`
	Rating    float64   `json:"rating" bson:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5" validate:"required,gte=1,lte=5"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	TourID    string    `json:"tour" bson:"tour" gorm:"column:tour_id;type:varchar(36);not null;uniqueIndex:idx_reviews_tour_user,priority:1" validate:"required"`
	UserID    string    `json:"user" bson:"user" gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_reviews_tour_user,priority:2" validate:"required"`
	Version   int       `json:"version" bson:"__v" gorm:"not null;default:0"`

	Author *UserSummary `json:"author,omitempty" bson:"-" gorm:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewPatch is the update-in-place payload. The tour and user references
// are fixed at creation and cannot be patched.
type ReviewPatch struct {
	Review *string  `json:"review,omitempty" validate:"omitempty,min=10,max=150"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

func (p ReviewPatch) IsEmpty() bool {
	return p.Review == nil && p.Rating == nil
}
