package ratelimiter

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type keyLimiter struct {
	lim        *rate.Limiter
	lastAccess time.Time
}

// KeyedLimiter keeps one token bucket per client key (IP + route).
type KeyedLimiter struct {
	mu  sync.Mutex
	m   map[string]*keyLimiter
	r   rate.Limit
	b   int
	ttl time.Duration
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter allows perMinute requests per key with the given burst.
// Idle keys are forgotten after ttl.
func NewKeyedLimiter(perMinute, burst int, ttl time.Duration) *KeyedLimiter {
	if burst <= 0 {
		burst = 1
	}
	r := rate.Inf
	if perMinute > 0 {
		r = rate.Limit(float64(perMinute) / 60.0)
	}
	return &KeyedLimiter{
		m:    make(map[string]*keyLimiter),
		r:    r,
		b:    burst,
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
}

// Allow reports whether a request for key may proceed now.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	entry, ok := kl.m[key]
	if !ok {
		entry = &keyLimiter{lim: rate.NewLimiter(kl.r, kl.b)}
		kl.m[key] = entry
	}
	entry.lastAccess = kl.now()
	return entry.lim.Allow()
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.m)
}

// Cleanup drops keys idle for longer than ttl.
func (kl *KeyedLimiter) Cleanup() {
	now := kl.now()
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for k, v := range kl.m {
		if now.Sub(v.lastAccess) > kl.ttl {
			delete(kl.m, k)
		}
	}
}

// Run calls Cleanup every interval until Stop is called.
func (kl *KeyedLimiter) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-kl.stop:
			return
		case <-ticker.C:
			kl.Cleanup()
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stop) })
}

// Middleware rejects requests over the per-client limit with 429.
func (kl *KeyedLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if !kl.Allow(c.ClientIP() + "|" + path) {
			c.Header("Retry-After", strconv.Itoa(kl.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// retryAfter is the number of seconds until one token is refilled.
func (kl *KeyedLimiter) retryAfter() int {
	if kl.r == rate.Inf || kl.r <= 0 {
		return 1
	}
	sec := int(math.Ceil(1.0 / float64(kl.r)))
	if sec < 1 {
		sec = 1
	}
	return sec
}
