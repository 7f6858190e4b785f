package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/platform/cache"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
)

// RateLimiter checks a per-client token bucket.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for the rate limiting middleware.
type RateLimitConfig struct {
	Limiter RateLimiter
	RPS     int
	Burst   int
}

// RateLimitIP returns middleware that rate limits requests per client IP.
// A nil Limiter disables limiting. Limiter failures let the request through.
// A Burst below one falls back to RPS so the bucket can ever hold a token.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Burst < 1 {
		cfg.Burst = cfg.RPS
	}

	return func(next http.Handler) http.Handler {
		if cfg.Limiter == nil || cfg.RPS <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())
			ip := clientIP(r)

			result, err := cfg.Limiter.CheckIPRateLimit(r.Context(), ip, cfg.RPS, cfg.Burst)
			if err != nil {
				log.Error("rate limit check failed", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Rate limit exceeded", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already replaced RemoteAddr with the forwarded client address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
