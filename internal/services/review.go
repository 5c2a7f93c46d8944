package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this tour")
	ErrEmptyPatch      = errors.New("no updatable review fields given")
)

type ReviewService struct {
	reviews    repository.ReviewRepository
	tours      repository.TourRepository
	users      repository.UserRepository
	aggregator *RatingAggregator
	shaper     *query.Shaper
	log        *logrus.Entry
	now        func() time.Time
}

func NewReviewService(stores *repository.Stores, aggregator *RatingAggregator, log *logrus.Entry) *ReviewService {
	return &ReviewService{
		reviews:    stores.Reviews,
		tours:      stores.Tours,
		users:      stores.Users,
		aggregator: aggregator,
		shaper:     query.NewShaper(query.Reviews),
		log:        log,
		now:        time.Now,
	}
}

type CreateReviewRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
	TourID string  `json:"tour"`
	UserID string  `json:"user"`
}

// CreateReview stores a review and refreshes the tour's rating aggregate.
// The author is the actor unless an admin names another user.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, req CreateReviewRequest) (*models.Review, error) {
	review := &models.Review{
		ID:        uuid.NewString(),
		Review:    req.Review,
		Rating:    req.Rating,
		TourID:    req.TourID,
		UserID:    req.UserID,
		CreatedAt: s.now().UTC(),
	}
	if review.UserID == "" || actor.Role != models.RoleAdmin {
		review.UserID = actor.UserID
	}
	if err := models.ValidateReview(review); err != nil {
		return nil, err
	}

	if _, err := s.tours.GetByID(ctx, review.TourID, query.Options{IncludeSecret: true}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTourNotFound, review.TourID)
		}
		return nil, err
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.aggregator.OnReviewCreated(ctx, review)

	s.log.WithFields(logrus.Fields{
		"review_id": review.ID,
		"tour_id":   review.TourID,
		"user_id":   review.UserID,
	}).Info("Review created")
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	reviews := []models.Review{*review}
	if err := attachAuthors(ctx, s.users, reviews); err != nil {
		return nil, err
	}
	return &reviews[0], nil
}

// ListReviews shapes params into a review query. A non-empty tourID scopes
// the list to that tour.
func (s *ReviewService) ListReviews(ctx context.Context, tourID string, params query.Params) ([]models.Review, query.Projection, error) {
	base := query.Query{Options: query.Options{Populate: []string{"user"}}}
	if tourID != "" {
		base = base.Where("tour", tourID)
	}
	q := s.shaper.Build(base, params)

	reviews, err := s.reviews.Find(ctx, q)
	if err != nil {
		return nil, q.Projection, err
	}
	if q.Populates("user") {
		if err := attachAuthors(ctx, s.users, reviews); err != nil {
			return nil, q.Projection, err
		}
	}
	return reviews, q.Projection, nil
}

// UpdateReview patches a review by id. The parent tour is captured before the
// write and recomputed after it.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, id string, patch models.ReviewPatch) (*models.Review, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if err := models.ValidateReviewPatch(&patch); err != nil {
		return nil, err
	}

	mc, err := s.aggregator.BeforeReviewMutation(ctx, MutationUpdate, id)
	if err != nil {
		return nil, err
	}
	if mc.Found && !actor.CanModify(mc.UserID) {
		return nil, ErrForbidden
	}

	review, err := s.reviews.UpdateByID(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.aggregator.AfterReviewMutation(ctx, mc)
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id string) error {
	mc, err := s.aggregator.BeforeReviewMutation(ctx, MutationDelete, id)
	if err != nil {
		return err
	}
	if mc.Found && !actor.CanModify(mc.UserID) {
		return ErrForbidden
	}

	if err := s.reviews.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.aggregator.AfterReviewMutation(ctx, mc)

	s.log.WithFields(logrus.Fields{
		"review_id": id,
		"tour_id":   mc.TourID,
	}).Info("Review deleted")
	return nil
}
