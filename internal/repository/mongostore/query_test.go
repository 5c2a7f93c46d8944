package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
)

func TestFilterDoc_GroupsOperatorsByKey(t *testing.T) {
	filter := filterDoc(query.Tours, []query.Predicate{
		{Field: "price", Op: query.OpGte, Value: 100.0},
		{Field: "difficulty", Op: query.OpEq, Value: "easy"},
		{Field: "price", Op: query.OpLt, Value: 500.0},
		{Field: "duration", Op: query.OpIn, Value: []any{5.0, 7.0}},
	})

	assert.Equal(t, bson.D{
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 100.0}, {Key: "$lt", Value: 500.0}}},
		{Key: "difficulty", Value: bson.D{{Key: "$eq", Value: "easy"}}},
		{Key: "duration", Value: bson.D{{Key: "$in", Value: []any{5.0, 7.0}}}},
	}, filter)
}

func TestFilterDoc_UsesDocumentKeys(t *testing.T) {
	filter := filterDoc(query.Tours, []query.Predicate{{Field: "id", Op: query.OpEq, Value: "t1"}})
	assert.Equal(t, "_id", filter[0].Key)

	filter = filterDoc(query.Reviews, []query.Predicate{{Field: "tour", Op: query.OpEq, Value: "t1"}})
	assert.Equal(t, "tour", filter[0].Key)
}

func TestFilterDoc_StringValueIsNeverAnOperator(t *testing.T) {
	filter := filterDoc(query.Tours, []query.Predicate{{Field: "name", Op: query.OpEq, Value: `{"$ne":null}`}})

	cond := filter[0].Value.(bson.D)
	require.Len(t, cond, 1)
	assert.Equal(t, "$eq", cond[0].Key)
	assert.Equal(t, `{"$ne":null}`, cond[0].Value)
}

func TestSortAndProjection(t *testing.T) {
	sort := sortDoc(query.Tours, []query.SortField{{Field: "price", Desc: true}, {Field: "name"}})
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "name", Value: 1}}, sort)

	proj := projectionDoc(query.Tours, query.Projection{Include: []string{"id", "name"}})
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}}, proj)

	proj = projectionDoc(query.Tours, query.Projection{Exclude: []string{"version"}})
	assert.Equal(t, bson.D{{Key: "__v", Value: 0}}, proj)

	assert.Nil(t, projectionDoc(query.Tours, query.Projection{}))
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(query.Tours, query.Query{Skip: 20, Limit: 10})
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 20, *opts.Skip)
	assert.EqualValues(t, 10, *opts.Limit)

	opts = findOptions(query.Tours, query.Query{})
	assert.EqualValues(t, query.DefaultLimit, *opts.Limit)
}

func TestVisible(t *testing.T) {
	base := bson.D{{Key: "price", Value: 1}}

	assert.Equal(t, base, visible(base, query.Options{IncludeSecret: true}))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, notSecret}, visible(base, query.Options{}))
	assert.Len(t, base, 1, "base must not be mutated")
}

func TestReviewUpdate(t *testing.T) {
	rating := 3.0
	update := reviewUpdate(models.ReviewPatch{Rating: &rating})

	assert.Equal(t, bson.D{
		{Key: "$inc", Value: bson.D{{Key: "__v", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "rating", Value: 3.0}}},
	}, update)
}

func TestPipelines(t *testing.T) {
	rs := ratingStatsPipeline("t1")
	require.Len(t, rs, 2)
	assert.Equal(t, "$match", rs[0][0].Key)
	assert.Equal(t, bson.D{{Key: "tour", Value: "t1"}}, rs[0][0].Value)

	stats := statsPipeline(4.5)
	require.Len(t, stats, 3)
	assert.Equal(t, "$sort", stats[2][0].Key)

	dist := distancesPipeline(geo.Point{Lat: 34.1, Lng: -118.1})
	assert.Equal(t, "$geoNear", dist[0][0].Key, "$geoNear must be the first stage")

	within := withinFilter(geo.Point{Lat: 34.1, Lng: -118.1}, geo.EarthRadiusKm)
	sphere := within[0].Value.(bson.D)[0].Value.(bson.D)[0].Value.(bson.A)
	assert.Equal(t, bson.A{-118.1, 34.1}, sphere[0])
	assert.InDelta(t, 1.0, sphere[1], 1e-9)
}
