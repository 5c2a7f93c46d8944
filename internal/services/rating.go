package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/princeprakhar/tours-backend/internal/metrics"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/pkg/tracing"
)

// Mutation names a review write addressed by the review's own id.
type Mutation string

const (
	MutationUpdate Mutation = "update"
	MutationDelete Mutation = "delete"

	triggerCreate = "create"
)

// MutationContext is captured before an update or delete by review id and
// handed to the post-mutation step. It carries the parent tour as it was
// before the write, which the write itself may change or remove.
type MutationContext struct {
	Mutation Mutation
	ReviewID string
	TourID   string
	UserID   string
	Found    bool
}

// RatingAggregator keeps a tour's ratingsQuantity/ratingsAverage equal to the
// aggregate over its reviews.
//
// Two concurrent review writes against the same tour each recompute and the
// last SetRatings wins. The aggregate is a cache that converges on the next
// review write, so recomputation is not serialized per tour.
type RatingAggregator struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	log     *logrus.Entry
	tracer  trace.Tracer
}

func NewRatingAggregator(tours repository.TourRepository, reviews repository.ReviewRepository, log *logrus.Entry) *RatingAggregator {
	return &RatingAggregator{
		tours:   tours,
		reviews: reviews,
		log:     log,
		tracer:  tracing.Tracer("services/rating"),
	}
}

// Recompute aggregates the tour's reviews and writes the result onto the
// tour. It writes tours only, so it never triggers another recompute.
func (a *RatingAggregator) Recompute(ctx context.Context, tourID string) (models.RatingSummary, error) {
	ctx, span := a.tracer.Start(ctx, "RatingAggregator.Recompute",
		trace.WithAttributes(attribute.String("tour.id", tourID)))
	defer span.End()

	start := time.Now()
	defer func() { metrics.RatingRecomputeDuration.Observe(time.Since(start).Seconds()) }()

	stats, err := a.reviews.RatingStats(ctx, tourID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return models.RatingSummary{}, err
	}

	summary := stats.Summary()
	if err := summary.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return models.RatingSummary{}, fmt.Errorf("rating aggregate for tour %s: %w", tourID, err)
	}

	if err := a.tours.SetRatings(ctx, tourID, summary); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return models.RatingSummary{}, err
	}

	span.SetAttributes(
		attribute.Int("ratings.quantity", summary.Quantity),
		attribute.Float64("ratings.average", summary.Average),
	)
	a.log.WithFields(logrus.Fields{
		"tour_id":          tourID,
		"ratings_quantity": summary.Quantity,
		"ratings_average":  summary.Average,
	}).Debug("Recomputed tour ratings")

	return summary, nil
}

// OnReviewCreated runs after a review insert commits. The new review already
// carries its tour reference.
func (a *RatingAggregator) OnReviewCreated(ctx context.Context, review *models.Review) {
	a.refresh(ctx, triggerCreate, review.TourID, review.ID)
}

// BeforeReviewMutation must run before an update or delete by review id. A
// missing review yields a context with Found=false, which makes the
// post-mutation step a no-op; the mutation reports not-found on its own.
func (a *RatingAggregator) BeforeReviewMutation(ctx context.Context, mutation Mutation, reviewID string) (MutationContext, error) {
	mc := MutationContext{Mutation: mutation, ReviewID: reviewID}

	review, err := a.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return mc, nil
	}
	if err != nil {
		return mc, fmt.Errorf("capture review %s before %s: %w", reviewID, mutation, err)
	}

	mc.TourID = review.TourID
	mc.UserID = review.UserID
	mc.Found = true
	return mc, nil
}

// AfterReviewMutation runs after the mutation commits and recomputes the tour
// captured in mc, never a fresh lookup of the review.
func (a *RatingAggregator) AfterReviewMutation(ctx context.Context, mc MutationContext) {
	if !mc.Found || mc.TourID == "" {
		metrics.RatingRecomputes.WithLabelValues(string(mc.Mutation), metrics.ResultSkipped).Inc()
		return
	}
	a.refresh(ctx, string(mc.Mutation), mc.TourID, mc.ReviewID)
}

// refresh is the best-effort path: the review write has already committed,
// so a failure here is logged and the aggregate stays stale until the next
// trigger.
func (a *RatingAggregator) refresh(ctx context.Context, trigger, tourID, reviewID string) {
	if _, err := a.Recompute(ctx, tourID); err != nil {
		metrics.RatingRecomputes.WithLabelValues(trigger, metrics.ResultError).Inc()
		a.log.WithError(err).WithFields(logrus.Fields{
			"tour_id":   tourID,
			"review_id": reviewID,
			"trigger":   trigger,
		}).Warn("Failed to refresh tour ratings")
		return
	}
	metrics.RatingRecomputes.WithLabelValues(trigger, metrics.ResultOK).Inc()
}
