package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	visitorIdleTTL = 3 * time.Minute
	sweepInterval  = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter hands out one token bucket per client IP. Idle buckets are
// swept lazily on access.
type clientLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	return &clientLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.BurstSize,
		now:      time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func RateLimit(cfg config.RateLimitConfig, builder *apierror.Builder, m *metrics.Collector) gin.HandlerFunc {
	return rateLimit(newClientLimiter(cfg), builder, m)
}

func rateLimit(l *clientLimiter, builder *apierror.Builder, m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.allow(c.ClientIP()) {
			c.Next()
			return
		}
		if m != nil {
			m.RateLimitedTotal.Inc()
		}
		c.Header("Retry-After", "1")
		builder.Build("Too many requests", http.StatusTooManyRequests,
			apierror.WithCode("RATE_LIMITED"),
			apierror.WithHint("Slow down and retry after a short delay"),
		).Respond(c)
	}
}
