package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/annazecevic/catalog-service/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller key.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// allow takes a token for the caller and answers 429 when the bucket is
// empty. It keys on the authenticated user when there is one and on the
// client IP otherwise.
func (rl *RateLimiter) allow(c *gin.Context) bool {
	key := "ip:" + c.ClientIP()
	if uid := CurrentUserID(c); uid != "" {
		key = "user:" + uid
	}

	if !rl.limiterFor(key).Allow() {
		logger.Security(logger.EventRateLimited, "Rate limit exceeded", logger.Fields(
			"key", key,
			"path", c.FullPath(),
		))
		abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, please try again later")
		return false
	}
	return true
}

// Middleware limits per client IP when mounted ahead of authentication.
// Pass the limiter to AuthMiddleware to limit per authenticated caller.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c) {
			return
		}
		c.Next()
	}
}

// Evict drops visitors idle for longer than ttl and returns how many went.
func (rl *RateLimiter) Evict(ttl time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-ttl)
	evicted := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			evicted++
		}
	}
	return evicted
}

// StartCleanup runs Evict every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Evict(ttl)
			}
		}
	}()
}
