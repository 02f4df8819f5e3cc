package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cortexai/research-agent/internal/models"
)

const rateWindow = time.Minute

// RateLimiter counts agent and note requests per client over a sliding
// one minute window.
type RateLimiter struct {
	mu    sync.Mutex
	limit int
	hits  map[string][]time.Time
	now   func() time.Time
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		limit: limitPerMinute,
		hits:  make(map[string][]time.Time),
		now:   time.Now,
	}
}

// Allow records a request for client and reports how many remain in the
// window. Clients with no hits left in the window are forgotten.
func (rl *RateLimiter) Allow(client string) (remaining int, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rateWindow)
	for c, ts := range rl.hits {
		if c != client && ts[len(ts)-1].Before(cutoff) {
			delete(rl.hits, c)
		}
	}

	ts := rl.hits[client]
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	ts = ts[i:]
	if len(ts) >= rl.limit {
		rl.hits[client] = ts
		return 0, false
	}
	rl.hits[client] = append(ts, now)
	return rl.limit - len(ts) - 1, true
}

// RateLimit limits each caller to limitPerMinute requests. Callers are the
// API key recorded by Auth, or the remote address when auth is off. A limit
// <= 0 disables limiting.
func RateLimit(limitPerMinute int) func(http.Handler) http.Handler {
	if limitPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := NewRateLimiter(limitPerMinute)
	limit := strconv.Itoa(limitPerMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ClientKey(r.Context())
			if client == "" {
				client = r.RemoteAddr
			}

			remaining, ok := rl.Allow(client)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
				models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
