package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
)

// --- Mock Tour Repository ---

type mockTourRepository struct {
	mock.Mock
}

func (m *mockTourRepository) Find(ctx context.Context, q query.Query) ([]models.Tour, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Tour), args.Error(1)
}

func (m *mockTourRepository) GetByID(ctx context.Context, id string, opts query.Options) (*models.Tour, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

func (m *mockTourRepository) Create(ctx context.Context, tour *models.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *mockTourRepository) Update(ctx context.Context, tour *models.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *mockTourRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTourRepository) SetRatings(ctx context.Context, id string, summary models.RatingSummary) error {
	return m.Called(ctx, id, summary).Error(0)
}

func (m *mockTourRepository) Within(ctx context.Context, center geo.Point, radiusKm float64) ([]models.Tour, error) {
	args := m.Called(ctx, center, radiusKm)
	return args.Get(0).([]models.Tour), args.Error(1)
}

func (m *mockTourRepository) Distances(ctx context.Context, center geo.Point) ([]models.TourDistance, error) {
	args := m.Called(ctx, center)
	return args.Get(0).([]models.TourDistance), args.Error(1)
}

func (m *mockTourRepository) Stats(ctx context.Context, minAverage float64) ([]models.TourStats, error) {
	args := m.Called(ctx, minAverage)
	return args.Get(0).([]models.TourStats), args.Error(1)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) UpdateByID(ctx context.Context, id string, patch models.ReviewPatch) (*models.Review, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepository) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepository) RatingStats(ctx context.Context, tourID string) (models.RatingStats, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(models.RatingStats), args.Error(1)
}
