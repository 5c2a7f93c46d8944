package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	backend, err := Open(ctx, &config.Config{
		Environment:    "test",
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    ":memory:",
	})
	require.NoError(t, err)
	defer backend.Close(ctx)

	user := &models.User{ID: "u1", Name: "Laura", Email: "laura@example.com", Role: models.RoleUser, Password: "x"}
	require.NoError(t, backend.Stores.Users.Create(ctx, user))

	require.NoError(t, backend.Purge(ctx))
	users, err := backend.Stores.Users.FindByIDs(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Empty(t, users)

	tours, err := backend.Stores.Tours.Find(ctx, query.Query{})
	require.NoError(t, err)
	assert.Empty(t, tours)
}

func TestOpen_RejectsUnknownRelationalDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DatabaseDriver: "mysql"})
	assert.Error(t, err)
}
