package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

const limiterPrefix = "tours_limiter"

// RateLimitMiddleware limits each client IP to the configured number of
// requests per period. With a redis client the counters are shared between
// instances; otherwise they live in process memory.
func RateLimitMiddleware(cfg *config.Config, client *redis.Client) (gin.HandlerFunc, error) {
	rate := limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  int64(cfg.RateLimitRequests),
	}

	var store limiter.Store
	if client != nil {
		var err error
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix})
		if err != nil {
			return nil, fmt.Errorf("create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	instance := limiter.New(store, rate)
	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			utils.SendError(c, http.StatusTooManyRequests, "Too many requests from this IP, please try again later", nil)
		}),
	), nil
}
