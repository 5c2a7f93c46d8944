// Package bootstrap opens the store selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/database"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/internal/repository/gormstore"
	"github.com/princeprakhar/tours-backend/internal/repository/mongostore"
)

// Backend is an open store. Purge empties it and Close releases its
// connections.
type Backend struct {
	Stores *repository.Stores
	Purge  func(context.Context) error
	Close  func(context.Context) error
}

func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg.DatabaseDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &Backend{
			Stores: mongostore.NewStores(db),
			Purge:  func(ctx context.Context) error { return mongostore.Purge(ctx, db) },
			Close:  client.Disconnect,
		}, nil
	}

	db, err := database.Init(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Backend{
		Stores: gormstore.NewStores(db),
		Purge:  func(ctx context.Context) error { return gormstore.Purge(ctx, db) },
		Close:  func(context.Context) error { return sqlDB.Close() },
	}, nil
}
