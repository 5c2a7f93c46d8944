// Package mongostore implements the repositories over MongoDB. Documents keep
// the tours/reviews/users collection layout with string ids.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

const (
	toursCollection   = "tours"
	reviewsCollection = "reviews"
	usersCollection   = "users"
)

func NewStores(db *mongo.Database) *repository.Stores {
	return &repository.Stores{
		Tours:   NewTourRepository(db),
		Reviews: NewReviewRepository(db),
		Users:   NewUserRepository(db),
	}
}

var mongoOps = map[query.Operator]string{
	query.OpEq:  "$eq",
	query.OpIn:  "$in",
	query.OpGte: "$gte",
	query.OpGt:  "$gt",
	query.OpLte: "$lte",
	query.OpLt:  "$lt",
}

// filterDoc groups predicates by document key, so price[gte] and price[lte]
// land in one {price: {$gte, $lte}} condition.
func filterDoc(schema *query.Schema, preds []query.Predicate) bson.D {
	filter := bson.D{}
	index := make(map[string]int)
	for _, p := range preds {
		op, ok := mongoOps[p.Op]
		if !ok {
			continue
		}
		key := schema.MustField(p.Field).Key
		i, seen := index[key]
		if !seen {
			i = len(filter)
			index[key] = i
			filter = append(filter, bson.E{Key: key, Value: bson.D{}})
		}
		cond := filter[i].Value.(bson.D)
		filter[i].Value = append(cond, bson.E{Key: op, Value: p.Value})
	}
	return filter
}

func sortDoc(schema *query.Schema, fields []query.SortField) bson.D {
	sort := make(bson.D, 0, len(fields))
	for _, s := range fields {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: schema.MustField(s.Field).Key, Value: dir})
	}
	return sort
}

func projectionDoc(schema *query.Schema, p query.Projection) bson.D {
	switch {
	case len(p.Include) > 0:
		doc := make(bson.D, 0, len(p.Include))
		for _, f := range p.Include {
			doc = append(doc, bson.E{Key: schema.MustField(f).Key, Value: 1})
		}
		return doc
	case len(p.Exclude) > 0:
		doc := make(bson.D, 0, len(p.Exclude))
		for _, f := range p.Exclude {
			doc = append(doc, bson.E{Key: schema.MustField(f).Key, Value: 0})
		}
		return doc
	default:
		return nil
	}
}

func findOptions(schema *query.Schema, q query.Query) *options.FindOptions {
	opts := options.Find().
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.EffectiveLimit()))
	if len(q.Sort) > 0 {
		opts.SetSort(sortDoc(schema, q.Sort))
	}
	if proj := projectionDoc(schema, q.Projection); proj != nil {
		opts.SetProjection(proj)
	}
	return opts
}

// and joins an extra top-level condition onto filter.
func and(filter bson.D, extra ...bson.E) bson.D {
	out := make(bson.D, 0, len(filter)+len(extra))
	out = append(out, filter...)
	return append(out, extra...)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}

// EnsureIndexes creates the indexes the repositories rely on, including the
// one-review-per-user-per-tour unique index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		toursCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
			{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Purge removes every review, tour and user.
func Purge(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{reviewsCollection, toursCollection, usersCollection} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("purge %s: %w", coll, err)
		}
	}
	return nil
}
