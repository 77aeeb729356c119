package httpx

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bibresolver/internal/config"

	"golang.org/x/time/rate"
)

const limiterIdle = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client. Idle clients are swept until
// the context passed to NewRateLimiter is done.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
	done    chan struct{}
}

func NewRateLimiter(ctx context.Context, cfg config.RateLimit) *RateLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(cfg.RPS),
		burst:   burst,
		idle:    limiterIdle,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweepLoop(ctx)
	return rl
}

// Done is closed once the sweeper has stopped.
func (rl *RateLimiter) Done() <-chan struct{} {
	return rl.done
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idle)
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = rl.now()
	return c.limiter
}

// Middleware rejects a client over its budget with 429 and a Retry-After
// hint in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiterFor(ClientKey(r))
		now := rl.now()
		res := limiter.ReserveN(now, 1)
		if !res.OK() || res.DelayFrom(now) > 0 {
			var delay time.Duration
			if res.OK() {
				delay = res.DelayFrom(now)
				res.CancelAt(now)
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(delay, rl.rate)))
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(delay time.Duration, limit rate.Limit) int {
	if delay <= 0 && limit > 0 {
		delay = time.Duration(float64(time.Second) / float64(limit))
	}
	secs := int(math.Ceil(delay.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
