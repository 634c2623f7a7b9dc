package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleFor    = 10 * time.Minute
)

type ipLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-client-IP token bucket of r requests per
// second with burst b. Idle buckets are swept periodically.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*ipLimiter)
	)

	go func() {
		for range time.Tick(limiterSweepEvery) {
			cutoff := time.Now().Add(-limiterIdleFor)
			mu.Lock()
			for ip, l := range buckets {
				if l.lastSeen.Before(cutoff) {
					delete(buckets, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		l, ok := buckets[ip]
		if !ok {
			l = &ipLimiter{bucket: rate.NewLimiter(r, b)}
			buckets[ip] = l
		}
		l.lastSeen = time.Now()
		allowed := l.bucket.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
