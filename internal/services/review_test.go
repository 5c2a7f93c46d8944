package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
)

func TestReviewService_CreateDefaultsAuthorToActor(t *testing.T) {
	env := newTestEnv(t)
	tour := env.createTour(t, "The Forest Hiker")
	actor := env.createUser(t, "u1", models.RoleUser)

	review := env.review(t, actor, tour.ID, 4)

	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "u1", review.UserID)
	assert.Equal(t, tour.ID, review.TourID)
}

func TestReviewService_CreateRejectsDuplicatePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.createTour(t, "The Forest Hiker")
	actor := env.createUser(t, "u1", models.RoleUser)
	env.review(t, actor, tour.ID, 4)

	_, err := env.reviews.CreateReview(ctx, actor, CreateReviewRequest{
		Review: "Trying to review twice",
		Rating: 1,
		TourID: tour.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.Equal(t, models.RatingSummary{Quantity: 1, Average: 4.0}, env.ratings(t, tour.ID))
}

func TestReviewService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.createTour(t, "The Forest Hiker")
	actor := env.createUser(t, "u1", models.RoleUser)

	_, err := env.reviews.CreateReview(ctx, actor, CreateReviewRequest{Review: "too short", Rating: 6, TourID: tour.ID})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = env.reviews.CreateReview(ctx, actor, CreateReviewRequest{Review: "A lovely tour overall", Rating: 4, TourID: "missing"})
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestReviewService_OwnershipOnMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.createTour(t, "The Forest Hiker")
	author := env.createUser(t, "u1", models.RoleUser)
	other := env.createUser(t, "u2", models.RoleUser)
	admin := env.createUser(t, "a1", models.RoleAdmin)
	review := env.review(t, author, tour.ID, 4)

	rating := 2.0
	_, err := env.reviews.UpdateReview(ctx, other, review.ID, models.ReviewPatch{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, env.reviews.DeleteReview(ctx, other, review.ID), ErrForbidden)
	assert.Equal(t, models.RatingSummary{Quantity: 1, Average: 4.0}, env.ratings(t, tour.ID))

	_, err = env.reviews.UpdateReview(ctx, admin, review.ID, models.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Quantity: 1, Average: 2.0}, env.ratings(t, tour.ID))
}

func TestReviewService_UpdateRejectsEmptyOrInvalidPatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := Actor{UserID: "u1", Role: models.RoleUser}

	_, err := env.reviews.UpdateReview(ctx, actor, "r1", models.ReviewPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	rating := 0.5
	_, err = env.reviews.UpdateReview(ctx, actor, "r1", models.ReviewPatch{Rating: &rating})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	rating = 3
	_, err = env.reviews.UpdateReview(ctx, actor, "missing", models.ReviewPatch{Rating: &rating})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_ListAndGetPopulateAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	forest := env.createTour(t, "The Forest Hiker")
	sea := env.createTour(t, "The Sea Explorer")
	user := env.createUser(t, "u1", models.RoleUser)
	review := env.review(t, user, forest.ID, 4)
	env.review(t, user, sea.ID, 5)

	all, _, err := env.reviews.ListReviews(ctx, "", query.Params{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, proj, err := env.reviews.ListReviews(ctx, forest.ID, query.Params{"rating[gte]": {"4"}})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, review.ID, scoped[0].ID)
	require.NotNil(t, scoped[0].Author)
	assert.Equal(t, "User u1", scoped[0].Author.Name)
	assert.Equal(t, []string{"version"}, proj.Exclude)

	got, err := env.reviews.GetReview(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "u1", got.Author.ID)

	_, err = env.reviews.GetReview(ctx, "missing")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_CreateAuthorsAsActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.createTour(t, "The Forest Hiker")
	actor := env.createUser(t, "u1", models.RoleUser)
	env.createUser(t, "u2", models.RoleUser)
	admin := env.createUser(t, "a1", models.RoleAdmin)

	review, err := env.reviews.CreateReview(ctx, actor, CreateReviewRequest{
		Review: "Posting as somebody else",
		Rating: 3,
		TourID: tour.ID,
		UserID: "u2",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", review.UserID)

	review, err = env.reviews.CreateReview(ctx, admin, CreateReviewRequest{
		Review: "Imported on behalf of u2",
		Rating: 5,
		TourID: tour.ID,
		UserID: "u2",
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", review.UserID)
}

func TestReviewService_CreateStampsCreatedAt(t *testing.T) {
	aggregator, tours, reviews, _ := newMockedAggregator()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	svc := &ReviewService{
		reviews:    reviews,
		tours:      tours,
		aggregator: aggregator,
		shaper:     query.NewShaper(query.Reviews),
		log:        aggregator.log,
		now:        func() time.Time { return now },
	}

	tours.On("GetByID", mock.Anything, "t1", query.Options{IncludeSecret: true}).Return(&models.Tour{ID: "t1"}, nil)
	var stored *models.Review
	reviews.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Review) }).
		Return(nil)
	reviews.On("RatingStats", mock.Anything, "t1").Return(models.RatingStats{TourID: "t1", Count: 1, Mean: 4}, nil)
	tours.On("SetRatings", mock.Anything, "t1", models.RatingSummary{Quantity: 1, Average: 4}).Return(nil)

	review, err := svc.CreateReview(context.Background(), Actor{UserID: "u1", Role: models.RoleUser}, CreateReviewRequest{
		Review: "Stamped at creation time",
		Rating: 4,
		TourID: "t1",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, now.UTC(), stored.CreatedAt)
	assert.Equal(t, time.UTC, review.CreatedAt.Location())
	tours.AssertExpectations(t)
	reviews.AssertExpectations(t)
}
