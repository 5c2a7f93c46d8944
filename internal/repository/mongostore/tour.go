package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

type TourRepository struct {
	coll *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{coll: db.Collection(toursCollection)}
}

var notSecret = bson.E{Key: "secretTour", Value: bson.D{{Key: "$ne", Value: true}}}

func visible(filter bson.D, opts query.Options) bson.D {
	if opts.IncludeSecret {
		return filter
	}
	return and(filter, notSecret)
}

func (r *TourRepository) Find(ctx context.Context, q query.Query) ([]models.Tour, error) {
	filter := visible(filterDoc(query.Tours, q.Filter), q.Options)
	cursor, err := r.coll.Find(ctx, filter, findOptions(query.Tours, q))
	if err != nil {
		return nil, fmt.Errorf("find tours: %w", err)
	}
	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("decode tours: %w", err)
	}
	return tours, nil
}

func (r *TourRepository) GetByID(ctx context.Context, id string, opts query.Options) (*models.Tour, error) {
	var tour models.Tour
	filter := visible(bson.D{{Key: "_id", Value: id}}, opts)
	if err := r.coll.FindOne(ctx, filter).Decode(&tour); err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) error {
	_, err := r.coll.InsertOne(ctx, tour)
	return translate(err)
}

func (r *TourRepository) Update(ctx context.Context, tour *models.Tour) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: tour.Name},
			{Key: "slug", Value: tour.Slug},
			{Key: "duration", Value: tour.Duration},
			{Key: "maxGroupSize", Value: tour.MaxGroupSize},
			{Key: "difficulty", Value: tour.Difficulty},
			{Key: "price", Value: tour.Price},
			{Key: "priceDiscount", Value: tour.PriceDiscount},
			{Key: "summary", Value: tour.Summary},
			{Key: "description", Value: tour.Description},
			{Key: "imageCover", Value: tour.ImageCover},
			{Key: "images", Value: tour.Images},
			{Key: "startDates", Value: tour.StartDates},
			{Key: "secretTour", Value: tour.SecretTour},
			{Key: "startLocation", Value: tour.StartLocation},
			{Key: "locations", Value: tour.Locations},
			{Key: "guides", Value: tour.GuideIDs},
		}},
		{Key: "$inc", Value: bson.D{{Key: "__v", Value: 1}}},
	}
	result, err := r.coll.UpdateByID(ctx, tour.ID, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	tour.Version++
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) SetRatings(ctx context.Context, id string, summary models.RatingSummary) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "ratingsQuantity", Value: summary.Quantity},
		{Key: "ratingsAverage", Value: summary.Average},
	}}}
	result, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("set tour ratings: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Within(ctx context.Context, center geo.Point, radiusKm float64) ([]models.Tour, error) {
	cursor, err := r.coll.Find(ctx, withinFilter(center, radiusKm))
	if err != nil {
		return nil, fmt.Errorf("tours within: %w", err)
	}
	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("decode tours: %w", err)
	}
	return tours, nil
}

func withinFilter(center geo.Point, radiusKm float64) bson.D {
	sphere := bson.A{bson.A{center.Lng, center.Lat}, radiusKm / geo.EarthRadiusKm}
	return bson.D{
		{Key: "startLocation", Value: bson.D{
			{Key: "$geoWithin", Value: bson.D{{Key: "$centerSphere", Value: sphere}}},
		}},
		notSecret,
	}
}

// Distances reports meters from center, nearest first.
func (r *TourRepository) Distances(ctx context.Context, center geo.Point) ([]models.TourDistance, error) {
	cursor, err := r.coll.Aggregate(ctx, distancesPipeline(center))
	if err != nil {
		return nil, fmt.Errorf("tour distances: %w", err)
	}
	var out []models.TourDistance
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode distances: %w", err)
	}
	return out, nil
}

func distancesPipeline(center geo.Point) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{center.Lng, center.Lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "query", Value: bson.D{notSecret}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "distance", Value: 1},
		}}},
	}
}

func (r *TourRepository) Stats(ctx context.Context, minAverage float64) ([]models.TourStats, error) {
	cursor, err := r.coll.Aggregate(ctx, statsPipeline(minAverage))
	if err != nil {
		return nil, fmt.Errorf("tour stats: %w", err)
	}
	var stats []models.TourStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode tour stats: %w", err)
	}
	return stats, nil
}

func statsPipeline(minAverage float64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "ratingsAverage", Value: bson.D{{Key: "$gte", Value: minAverage}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toUpper", Value: "$difficulty"}}},
			{Key: "numTours", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "numRatings", Value: bson.D{{Key: "$sum", Value: "$ratingsQuantity"}}},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$ratingsAverage"}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgPrice", Value: 1}}}},
	}
}
