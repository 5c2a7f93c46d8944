package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/database"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/internal/repository/gormstore"
)

type testEnv struct {
	stores     *repository.Stores
	aggregator *RatingAggregator
	reviews    *ReviewService
	tours      *TourService
	hook       *logtest.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Init(config.DriverSQLite, ":memory:", true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	entry := log.WithField("component", "test")

	stores := gormstore.NewStores(db)
	aggregator := NewRatingAggregator(stores.Tours, stores.Reviews, entry)
	return &testEnv{
		stores:     stores,
		aggregator: aggregator,
		reviews:    NewReviewService(stores, aggregator, entry),
		tours:      NewTourService(stores, entry),
		hook:       hook,
	}
}

func (e *testEnv) createTour(t *testing.T, name string) *models.Tour {
	t.Helper()
	tour, err := e.tours.CreateTour(context.Background(), &models.Tour{
		Name:          name,
		Duration:      5,
		MaxGroupSize:  10,
		Difficulty:    models.DifficultyEasy,
		Price:         397,
		Summary:       "Breathtaking hike through the forest",
		ImageCover:    "tour-1-cover.jpg",
		StartLocation: models.NewPoint(-116.214531, 51.417611),
	})
	require.NoError(t, err)
	return tour
}

func (e *testEnv) createUser(t *testing.T, id, role string) Actor {
	t.Helper()
	require.NoError(t, e.stores.Users.Create(context.Background(), &models.User{
		ID:       id,
		Name:     "User " + id,
		Email:    id + "@example.com",
		Role:     role,
		Password: "hashed",
	}))
	return Actor{UserID: id, Role: role}
}

func (e *testEnv) review(t *testing.T, actor Actor, tourID string, rating float64) *models.Review {
	t.Helper()
	review, err := e.reviews.CreateReview(context.Background(), actor, CreateReviewRequest{
		Review: fmt.Sprintf("Rated this tour %v stars", rating),
		Rating: rating,
		TourID: tourID,
	})
	require.NoError(t, err)
	return review
}

func (e *testEnv) ratings(t *testing.T, tourID string) models.RatingSummary {
	t.Helper()
	tour, err := e.stores.Tours.GetByID(context.Background(), tourID, query.Options{IncludeSecret: true})
	require.NoError(t, err)
	return models.RatingSummary{Quantity: tour.RatingsQuantity, Average: tour.RatingsAverage}
}
