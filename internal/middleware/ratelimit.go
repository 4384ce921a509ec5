package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter table.
const maxTrackedClients = 10000

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client key.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	rps        rate.Limit
	burst      int
	maxClients int
	now        func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second per
// client with the given burst. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*clientLimiter),
		rps:        rate.Limit(rps),
		burst:      burst,
		maxClients: maxTrackedClients,
		now:        time.Now,
	}
}

// Enabled reports whether the limiter rejects anything at all.
func (l *RateLimiter) Enabled() bool {
	return l != nil && l.rps > 0
}

// Allow consumes a token for key.
func (l *RateLimiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxClients {
			l.evict(now)
		}
		cl = &clientLimiter{lim: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.lim.AllowN(now, 1)
}

// evict drops every client whose bucket has refilled completely, since a
// fresh limiter behaves the same. If none has, the least recently seen
// client goes. Callers hold l.mu.
func (l *RateLimiter) evict(now time.Time) {
	refillSeconds := float64(l.burst) / float64(l.rps)

	var oldestKey string
	var oldest time.Time
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen).Seconds() >= refillSeconds {
			delete(l.limiters, key)
			continue
		}
		if oldestKey == "" || cl.lastSeen.Before(oldest) {
			oldestKey, oldest = key, cl.lastSeen
		}
	}
	if len(l.limiters) >= l.maxClients && oldestKey != "" {
		delete(l.limiters, oldestKey)
	}
}

// retryAfterSeconds is the whole-second wait for one token to refill.
func (l *RateLimiter) retryAfterSeconds() int {
	return int(math.Ceil(1 / float64(l.rps)))
}

// RateLimit rejects requests over the per-client budget through reject.
// Clients are keyed by user id when Identity has run, otherwise by IP.
func RateLimit(limiter *RateLimiter, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if viewer, ok := GetViewer(c); ok {
			key = "user:" + viewer.UserID
		}

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(limiter.retryAfterSeconds()))
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
