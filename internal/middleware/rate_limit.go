package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter limits requests per client IP. Counts live in Redis as fixed
// windows so that every replica shares them; without Redis, or while Redis
// fails, each process falls back to a token bucket per client.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:api"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
		local:  make(map[string]*localBucket),
	}
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.Limit <= 0 {
			c.Next()
			return
		}

		client := c.ClientIP()
		allowed, remaining, resetTime := rl.Allow(c.Request.Context(), client)

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": max(int(time.Until(resetTime).Seconds()), 1),
			})
			return
		}

		c.Next()
	}
}

// Allow counts a request from client against the shared window, or the local
// bucket when Redis is unavailable.
// Returns: allowed, remaining requests, reset time
func (rl *RateLimiter) Allow(ctx context.Context, client string) (bool, int, time.Time) {
	if rl.redis != nil {
		allowed, remaining, resetTime, err := rl.IsAllowed(ctx, client)
		if err == nil {
			return allowed, remaining, resetTime
		}
		rl.logger.Warn("rate limit check failed, using local limiter", zap.Error(err))
	}
	return rl.allowLocal(client)
}

// IsAllowed checks if a request from the given client is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, client string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, client, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := max(rl.config.Limit-count, 0)
	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// allowLocal refills Limit tokens per Window with a burst of Limit.
func (rl *RateLimiter) allowLocal(client string) (bool, int, time.Time) {
	now := time.Now()

	rl.mu.Lock()
	rl.sweep(now)
	bucket, ok := rl.local[client]
	if !ok {
		every := rl.config.Window / time.Duration(rl.config.Limit)
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Every(every), rl.config.Limit)}
		rl.local[client] = bucket
	}
	bucket.seen = now
	rl.mu.Unlock()

	limiter := bucket.limiter
	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)
	remaining := max(int(tokens), 0)
	// time until the bucket holds one token again
	wait := time.Duration(0)
	if tokens < 1 {
		wait = time.Duration((1 - tokens) / float64(limiter.Limit()) * float64(time.Second))
	}
	return allowed, remaining, now.Add(wait)
}

// sweep drops clients idle for a whole window. Their buckets are full again,
// so a fresh bucket behaves the same. Runs at most once per window.
// Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	rl.lastSweep = now
	for client, bucket := range rl.local {
		if now.Sub(bucket.seen) >= rl.config.Window {
			delete(rl.local, client)
		}
	}
}

// localClients reports how many clients hold a local bucket.
func (rl *RateLimiter) localClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.local)
}
