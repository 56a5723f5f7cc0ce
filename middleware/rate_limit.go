package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/storemate/storemate/utils"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limiters   = map[string]*clientLimiter{}
	limitersMu sync.Mutex
)

// RateLimit applies a per-client token bucket keyed by IP. Idle entries are
// evicted by a background sweep so the map stays bounded.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 60
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}

	go sweepLimiters()

	return func(c *gin.Context) {
		key := c.ClientIP()

		limitersMu.Lock()
		cl, ok := limiters[key]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
			limiters[key] = cl
		}
		cl.lastSeen = time.Now()
		limitersMu.Unlock()

		if !cl.limiter.Allow() {
			utils.Error(c, http.StatusTooManyRequests, 42901, "リクエストが多すぎます。しばらくしてからもう一度お試しください")
			c.Abort()
			return
		}
		c.Next()
	}
}

func sweepLimiters() {
	for range time.Tick(5 * time.Minute) {
		limitersMu.Lock()
		for key, cl := range limiters {
			if time.Since(cl.lastSeen) > 10*time.Minute {
				delete(limiters, key)
			}
		}
		limitersMu.Unlock()
	}
}
