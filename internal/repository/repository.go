// Package repository declares the data-store capability the services need.
// gormstore and mongostore implement it over a relational and a document
// store respectively.
package repository

import (
	"context"
	"errors"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type TourRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Tour, error)
	GetByID(ctx context.Context, id string, opts query.Options) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) error
	// Update replaces the mutable fields of tour and bumps its version.
	Update(ctx context.Context, tour *models.Tour) error
	Delete(ctx context.Context, id string) error
	// SetRatings writes the cached rating aggregate. It touches tours only.
	SetRatings(ctx context.Context, id string, summary models.RatingSummary) error
	Within(ctx context.Context, center geo.Point, radiusKm float64) ([]models.Tour, error)
	Distances(ctx context.Context, center geo.Point) ([]models.TourDistance, error)
	Stats(ctx context.Context, minAverage float64) ([]models.TourStats, error)
}

type ReviewRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	// UpdateByID applies patch to the review addressed by id and returns the
	// updated document.
	UpdateByID(ctx context.Context, id string, patch models.ReviewPatch) (*models.Review, error)
	DeleteByID(ctx context.Context, id string) error
	// RatingStats groups the tour's reviews into count and mean rating.
	RatingStats(ctx context.Context, tourID string) (models.RatingStats, error)
}

type UserRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Stores bundles one backend's repositories.
type Stores struct {
	Tours   TourRepository
	Reviews ReviewRepository
	Users   UserRepository
}
