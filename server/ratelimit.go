package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"
	"github.com/redecred/redecred/prometheus"
)

// Default client rate limit: one token per second with bursts of 60.
const (
	DefaultRateLimit    = 1
	DefaultRateCapacity = 60
)

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	rate     float64
	capacity int64
	metrics  *prometheus.Metrics

	mu      sync.RWMutex
	clients map[string]*ratelimit.Bucket
}

// NewRateLimiter creates a RateLimiter refilling rate tokens per second up
// to capacity. metrics may be nil.
func NewRateLimiter(rate float64, capacity int64, metrics *prometheus.Metrics) *RateLimiter {
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	if capacity <= 0 {
		capacity = DefaultRateCapacity
	}
	return &RateLimiter{
		rate:     rate,
		capacity: capacity,
		metrics:  metrics,
		clients:  make(map[string]*ratelimit.Bucket),
	}
}

func (rl *RateLimiter) bucket(client string) *ratelimit.Bucket {
	rl.mu.RLock()
	b, ok := rl.clients[client]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.clients[client]; !ok {
		b = ratelimit.NewBucketWithRate(rl.rate, rl.capacity)
		rl.clients[client] = b
		rl.updateGauge()
	}
	return b
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

// Sweep forgets clients whose bucket is full again and returns how many
// were removed.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var n int
	for client, b := range rl.clients {
		if b.Available() >= b.Capacity() {
			delete(rl.clients, client)
			n++
		}
	}
	rl.updateGauge()
	return n
}

func (rl *RateLimiter) updateGauge() {
	if rl.metrics != nil {
		rl.metrics.RateLimiterBuckets.Set(float64(len(rl.clients)))
	}
}

// tokenCost charges searches more than catalog lookups since a single search
// fans out into many upstream requests.
func tokenCost(r *http.Request) int64 {
	switch {
	case r.URL.Path == "/health", r.URL.Path == "/metrics":
		return 0
	case strings.HasPrefix(r.URL.Path, "/search"):
		return 10
	}
	return 1
}

// Middleware rejects requests from clients without enough tokens with 429
// and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cost := tokenCost(r)
		if cost == 0 {
			next.ServeHTTP(w, r)
			return
		}

		b := rl.bucket(clientAddr(r))
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.capacity, 10))

		if _, ok := b.TakeMaxDuration(cost, 0); !ok {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(b, cost)))
			respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(b.Available(), 10))
		next.ServeHTTP(w, r)
	})
}

// retryAfter returns the whole seconds until cost tokens are available.
func retryAfter(b *ratelimit.Bucket, cost int64) int {
	missing := cost - b.Available()
	if missing <= 0 {
		return 1
	}
	wait := time.Duration(float64(missing) / b.Rate() * float64(time.Second))
	return max(1, int(math.Ceil(wait.Seconds())))
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
