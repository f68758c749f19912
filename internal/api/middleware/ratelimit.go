package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aprendia/learning-assistant/internal/api/response"
	"github.com/aprendia/learning-assistant/internal/repository/redis"
)

// RateLimitMiddleware throttles requests per client IP
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting keyed by the client address
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), key)
		if err != nil {
			// a broken limiter must not take the API down
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
