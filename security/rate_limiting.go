package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window request limits backed by redis, so
// the limits hold across replicas. Redis outages fail open: a gate that
// cannot count must not reject ticket holders.
type RateLimiter struct {
	redis  *redis.Client
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: redisClient, window: window}
}

// KeyFunc derives the limit bucket for a request, typically the
// authenticated account id or the client IP.
type KeyFunc func(e *core.RequestEvent) string

// ByAuthOrIP buckets authenticated requests per account and anonymous
// ones per client address.
func ByAuthOrIP(e *core.RequestEvent) string {
	if e.Auth != nil {
		return "acc:" + e.Auth.Id
	}
	return "ip:" + e.RealIP()
}

// ByIP buckets purely on the client address, for pre-auth endpoints.
func ByIP(e *core.RequestEvent) string {
	return "ip:" + e.RealIP()
}

// Limit returns a route middleware allowing max requests per window for
// the named operation.
func (r *RateLimiter) Limit(name string, max int, keyFn KeyFunc) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:%s:%s", name, keyFn(e))
		ctx := e.Request.Context()

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			e.App.Logger().Warn("rate limit counter unavailable", "key", key, "error", err)
			return e.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, r.window)
		}
		if count > int64(max) {
			return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
		}
		return e.Next()
	}
}

// AntiBot rejects requests from obvious automation by user agent before
// they reach the checkout endpoints.
func AntiBot(e *core.RequestEvent) error {
	ua := strings.ToLower(e.Request.Header.Get("User-Agent"))
	for _, pattern := range []string{"bot", "crawler", "spider", "scraper"} {
		if strings.Contains(ua, pattern) {
			return apis.NewForbiddenError("Access denied", nil)
		}
	}
	return e.Next()
}
