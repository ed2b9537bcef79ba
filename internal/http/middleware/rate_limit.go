package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const limiterPrefix = "classifieds:limiter"

var errRateLimited = apperror.New(apperror.ErrCodeRateLimited, "слишком много запросов, попробуйте позже")

// KeyFunc выбирает ключ лимита для запроса.
type KeyFunc func(c *gin.Context) string

// ByClientIP - лимит на IP.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByActor - лимит на пользователя, для анонимных запросов на IP.
func ByActor(scope string) KeyFunc {
	return func(c *gin.Context) string {
		if actor, ok := ActorFrom(c); ok {
			return scope + ":" + actor.UserID.String()
		}
		return scope + ":" + c.ClientIP()
	}
}

// NewLimiterStore возвращает Redis-хранилище при заданном redisURL, иначе память процесса.
// Второе значение закрывает соединение с Redis.
func NewLimiterStore(ctx context.Context, redisURL string) (limiter.Store, func() error, error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("rate limit: некорректный REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("rate limit: redis недоступен: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("rate limit: %w", err)
	}
	return store, client.Close, nil
}

// RateLimitMiddleware ограничивает число запросов за period.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration, key KeyFunc) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}
	if key == nil {
		key = ByClientIP
	}

	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), key(c))
		if err != nil {
			// хранилище недоступно: запрос не блокируем
			logger.L().WithError(err).Warn("rate limit: хранилище недоступно")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", lctx.Reset))

		if lctx.Reached {
			response.Abort(c, errRateLimited)
			return
		}

		c.Next()
	}
}
