package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/princeprakhar/tours-backend/internal/api/routes"
	"github.com/princeprakhar/tours-backend/internal/bootstrap"
	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/pkg/logger"
	"github.com/princeprakhar/tours-backend/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  "tours-api",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing: ", err)
	}

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}
	logger.WithComponent("server").WithField("driver", cfg.DatabaseDriver).Info("Database connected")

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL: ", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to redis: ", err)
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := routes.SetupRoutes(router, routes.Deps{
		Config: cfg,
		Stores: backend.Stores,
		Log:    logger.Logger(),
		Redis:  redisClient,
	}); err != nil {
		logger.Fatal("Failed to set up routes: ", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if redisClient != nil {
			err = errors.Join(err, redisClient.Close())
		}
		return errors.Join(err, backend.Close(shutdownCtx), shutdownTracing(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server stopped with error: ", err)
	}
	logger.Info("Server stopped")
}
