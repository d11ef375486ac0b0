package middleware

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"
)

// RateLimiter applies a fixed per-IP request window. With a redis client
// the window counters are shared across instances; without one it falls
// back to an in-process map.
func RateLimiter(client rueidis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if client != nil {
		return redisRateLimiter(client, limit, window)
	}
	return memoryRateLimiter(limit, window)
}

func redisRateLimiter(client rueidis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			windowStart := time.Now().Unix() / int64(window.Seconds())
			key := fmt.Sprintf("ratelimit:%s:%d", c.RealIP(), windowStart)

			count, err := client.Do(ctx, client.B().Incr().Key(key).Build()).AsInt64()
			if err != nil {
				// fail open rather than reject traffic on a cache outage
				log.Printf("rate limiter: redis unavailable: %v", err)
				return next(c)
			}
			if count == 1 {
				_ = client.Do(
					ctx,
					client.B().Expire().Key(key).Seconds(int64(window.Seconds())).Build(),
				).Error()
			}

			if count > int64(limit) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func memoryRateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := c.RealIP()

			mu.Lock()
			b, ok := buckets[key]
			if !ok || now.Sub(b.start) > window {
				b = &bucket{start: now}
				buckets[key] = b
			}

			if b.count >= limit {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			b.count++
			mu.Unlock()

			return next(c)
		}
	}
}
