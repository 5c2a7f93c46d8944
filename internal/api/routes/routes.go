package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/princeprakhar/tours-backend/internal/api/handlers"
	"github.com/princeprakhar/tours-backend/internal/api/middleware"
	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/internal/services"
)

const serviceName = "tours-api"

// Deps are the process-wide collaborators the routes are built from.
type Deps struct {
	Config *config.Config
	Stores *repository.Stores
	Log    *logrus.Logger
	Redis  *redis.Client // optional, backs the rate limiter
}

func SetupRoutes(router *gin.Engine, deps Deps) error {
	cfg := deps.Config
	log := deps.Log

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestLogger(log.WithField("component", "http")))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.CORSAllowOrigins))

	rateLimit, err := middleware.RateLimitMiddleware(cfg, deps.Redis)
	if err != nil {
		return err
	}

	// Initialize services
	aggregator := services.NewRatingAggregator(deps.Stores.Tours, deps.Stores.Reviews, log.WithField("component", "rating_aggregator"))
	tourService := services.NewTourService(deps.Stores, log.WithField("component", "tour_service"))
	reviewService := services.NewReviewService(deps.Stores, aggregator, log.WithField("component", "review_service"))

	// Initialize handlers
	tourHandler := handlers.NewTourHandler(tourService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	staff := middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", rateLimit)

	tours := api.Group("/tours")
	{
		tours.GET("/top-5-cheap", handlers.AliasTopTours(), tourHandler.GetAllTours)
		tours.GET("/tour-stats", tourHandler.GetTourStats)
		tours.GET("/monthly-plan/:year", auth,
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
			tourHandler.GetMonthlyPlan)
		tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", tourHandler.GetToursWithin)
		tours.GET("/distances/:latlng/unit/:unit", tourHandler.GetDistances)

		tours.GET("", tourHandler.GetAllTours)
		tours.POST("", auth, staff, tourHandler.CreateTour)
		tours.GET("/:id", tourHandler.GetTour)
		tours.PATCH("/:id", auth, staff, tourHandler.UpdateTour)
		tours.DELETE("/:id", auth, staff, tourHandler.DeleteTour)

		// Reviews of one tour
		tours.GET("/:id/reviews", auth, reviewHandler.GetAllReviews)
		tours.POST("/:id/reviews", auth, middleware.RestrictTo(models.RoleUser), reviewHandler.CreateReview)
	}

	reviews := api.Group("/reviews", auth)
	{
		reviews.GET("", reviewHandler.GetAllReviews)
		reviews.POST("", middleware.RestrictTo(models.RoleUser), reviewHandler.CreateReview)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.PATCH("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewHandler.UpdateReview)
		reviews.DELETE("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewHandler.DeleteReview)
	}

	log.Info("Routes initialized successfully")
	return nil
}
