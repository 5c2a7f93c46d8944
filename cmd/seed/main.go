// Command seed loads the development fixtures into the configured store, or
// empties it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/princeprakhar/tours-backend/internal/bootstrap"
	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/internal/services"
	"github.com/princeprakhar/tours-backend/internal/utils"
	"github.com/princeprakhar/tours-backend/pkg/logger"
)

func main() {
	var importData, deleteData bool
	var dir string
	flag.BoolVar(&importData, "import", false, "import the fixtures")
	flag.BoolVar(&deleteData, "delete", false, "delete every tour, review and user")
	flag.StringVar(&dir, "dir", "dev-data", "directory holding tours.json, users.json and reviews.json")
	flag.Parse()

	if importData == deleteData {
		fmt.Fprintln(os.Stderr, "usage: seed -import | -delete [-dir dev-data]")
		os.Exit(2)
	}

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

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}
	defer backend.Close(context.Background())

	if deleteData {
		if err := backend.Purge(ctx); err != nil {
			logger.Fatal("Failed to delete data: ", err)
		}
		logger.Info("Data successfully deleted")
		return
	}

	if err := seed(ctx, backend.Stores, dir); err != nil {
		logger.Fatal("Failed to import data: ", err)
	}
	logger.Info("Data successfully loaded")
}

// fixtureUser carries the plain password that models.User never decodes.
type fixtureUser struct {
	models.User
	Password string `json:"password"`
}

func seed(ctx context.Context, stores *repository.Stores, dir string) error {
	var users []fixtureUser
	var tours []models.Tour
	var reviews []models.Review
	for name, dst := range map[string]any{"users.json": &users, "tours.json": &tours, "reviews.json": &reviews} {
		if err := readJSON(filepath.Join(dir, name), dst); err != nil {
			return err
		}
	}

	for i := range users {
		u := &users[i].User
		u.Password = users[i].Password
		u.Active = true
		if err := models.ValidateUser(u); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		if err := u.HashPassword(); err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		if err := stores.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
	}

	now := time.Now().UTC()
	for i := range tours {
		t := &tours[i]
		t.Slug = utils.Slugify(t.Name)
		t.RatingsAverage = models.DefaultRatingsAverage
		t.RatingsQuantity = models.DefaultRatingsQuantity
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if err := models.ValidateTour(t); err != nil {
			return fmt.Errorf("tour %s: %w", t.Name, err)
		}
		if err := stores.Tours.Create(ctx, t); err != nil {
			return fmt.Errorf("create tour %s: %w", t.Name, err)
		}
	}

	for i := range reviews {
		r := &reviews[i]
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if err := models.ValidateReview(r); err != nil {
			return fmt.Errorf("review %s: %w", r.ID, err)
		}
		if err := stores.Reviews.Create(ctx, r); err != nil {
			return fmt.Errorf("create review %s: %w", r.ID, err)
		}
	}

	// Reviews were written straight to the store, so every aggregate is
	// recomputed once at the end.
	aggregator := services.NewRatingAggregator(stores.Tours, stores.Reviews, logger.WithComponent("seed"))
	for _, t := range tours {
		if _, err := aggregator.Recompute(ctx, t.ID); err != nil {
			return err
		}
	}

	logger.WithComponent("seed").
		WithField("users", len(users)).
		WithField("tours", len(tours)).
		WithField("reviews", len(reviews)).
		Info("Fixtures imported")
	return nil
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
