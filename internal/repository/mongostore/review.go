package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection)}
}

func (r *ReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	cursor, err := r.coll.Find(ctx, filterDoc(query.Reviews, q.Filter), findOptions(query.Reviews, q))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	_, err := r.coll.InsertOne(ctx, review)
	return translate(err)
}

func (r *ReviewRepository) UpdateByID(ctx context.Context, id string, patch models.ReviewPatch) (*models.Review, error) {
	var review models.Review
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, reviewUpdate(patch), opts).Decode(&review)
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func reviewUpdate(patch models.ReviewPatch) bson.D {
	set := bson.D{}
	if patch.Review != nil {
		set = append(set, bson.E{Key: "review", Value: *patch.Review})
	}
	if patch.Rating != nil {
		set = append(set, bson.E{Key: "rating", Value: *patch.Rating})
	}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "__v", Value: 1}}}}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	return update
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type ratingGroup struct {
	TourID    string  `bson:"_id"`
	NRating   int     `bson:"nRating"`
	AvgRating float64 `bson:"avgRating"`
}

func (r *ReviewRepository) RatingStats(ctx context.Context, tourID string) (models.RatingStats, error) {
	cursor, err := r.coll.Aggregate(ctx, ratingStatsPipeline(tourID))
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("rating stats for tour %s: %w", tourID, err)
	}
	var groups []ratingGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return models.RatingStats{}, fmt.Errorf("decode rating stats: %w", err)
	}

	stats := models.RatingStats{TourID: tourID}
	if len(groups) > 0 {
		stats.Count = groups[0].NRating
		stats.Mean = groups[0].AvgRating
	}
	return stats, nil
}

func ratingStatsPipeline(tourID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tour", Value: tourID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tour"},
			{Key: "nRating", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}
}
