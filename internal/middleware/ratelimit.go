package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SessionLookup reports whether a session ID is live.
type SessionLookup interface {
	Exists(id string) bool
}

// RateLimit returns per-client rate limiting middleware using token buckets.
//
// Each client gets a bucket that fills at rps tokens/sec up to burst tokens.
// A client is its session only when the request carries the cookie of a live
// session; everything else is keyed by IP, so dropping the cookie does not
// earn a fresh bucket. Register it before Session so throttled requests never
// start sessions.
//
// Buckets idle long enough to have refilled are dropped; a new bucket is full
// too, so pruning never changes a decision.
func RateLimit(sessions SessionLookup, cookieName string, rps float64, burst int) gin.HandlerFunc {
	l := &limiterSet{
		limiters: make(map[string]*clientLimiter),
		rps:      rps,
		burst:    burst,
		idle:     refillTime(rps, burst),
	}

	return func(c *gin.Context) {
		if !l.allow(clientKey(c, sessions, cookieName), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rps       float64
	burst     int
	idle      time.Duration
	lastPrune time.Time
}

func (l *limiterSet) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= l.idle {
		l.prune(now)
	}

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

func (l *limiterSet) prune(now time.Time) {
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen) >= l.idle {
			delete(l.limiters, key)
		}
	}
	l.lastPrune = now
}

func (l *limiterSet) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// refillTime is how long an empty bucket takes to fill up again, at least a minute.
func refillTime(rps float64, burst int) time.Duration {
	d := time.Minute
	if rps > 0 {
		if full := time.Duration(float64(burst) / rps * float64(time.Second)); full > d {
			d = full
		}
	}
	return d
}

func clientKey(c *gin.Context, sessions SessionLookup, cookieName string) string {
	if id, err := c.Cookie(cookieName); err == nil && id != "" && sessions.Exists(id) {
		return "session:" + id
	}
	return "ip:" + c.ClientIP()
}
