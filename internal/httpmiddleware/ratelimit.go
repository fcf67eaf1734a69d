package httpmiddleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter tracks per-client token buckets in process memory. Tokens
// refill continuously at perMinute per minute, capped at perMinute, so a
// burst can never exceed one minute's allowance.
type rateLimiter struct {
	perMinute float64

	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	tokens float64
	seen   time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &rateLimiter{
		perMinute: float64(perMinute),
		clients:   make(map[string]*clientBucket),
	}
}

// take spends one token for the client. When the bucket is empty it reports
// how long until the next token accrues.
func (l *rateLimiter) take(client string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{tokens: l.perMinute, seen: now}
		l.clients[client] = b
	} else {
		b.tokens += now.Sub(b.seen).Minutes() * l.perMinute
		if b.tokens > l.perMinute {
			b.tokens = l.perMinute
		}
		b.seen = now
	}

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) / l.perMinute * float64(time.Minute))
		return false, wait
	}
	b.tokens--
	return true, 0
}

// RateLimit allows perMinute requests per client IP and rejects the rest
// with 429 and a Retry-After hint.
func RateLimit(perMinute int) gin.HandlerFunc {
	l := newRateLimiter(perMinute)
	return func(c *gin.Context) {
		client := c.ClientIP()
		if client == "" {
			client = "unknown"
		}
		ok, wait := l.take(client, time.Now())
		if !ok {
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
