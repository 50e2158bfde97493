package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gatherly/events-api/internal/http/response"
	"github.com/gatherly/events-api/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimiter throttles the credential endpoints with a fixed window kept
// in Postgres, so limits survive restarts and hold across instances.
type RateLimiter struct {
	pool     *pgxpool.Pool
	requests int
	window   time.Duration
}

func NewRateLimiter(pool *pgxpool.Pool, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{pool: pool, requests: requests, window: window}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + ":" + clientIP(r)

		allowed, err := rl.check(r.Context(), key)
		if err != nil {
			// Fail open: a limiter outage must not take auth down with it.
			logger.ErrorContext(r.Context(), "rate limit check failed", "error", err)
		} else if !allowed {
			response.RateLimit(w, "too many requests, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) check(ctx context.Context, key string) (bool, error) {
	hashed := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	const q = `
		INSERT INTO rate_limits (rl_key, count, window_start, expires_at)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (rl_key) DO UPDATE SET
			count = CASE
				WHEN rate_limits.window_start < $2 THEN 1
				ELSE rate_limits.count + 1
			END,
			window_start = CASE
				WHEN rate_limits.window_start < $2 THEN $2
				ELSE rate_limits.window_start
			END,
			expires_at = $3
		RETURNING count`

	var count int
	if err := rl.pool.QueryRow(ctx, q, hashed, windowStart, now.Add(time.Hour)).Scan(&count); err != nil {
		return true, err
	}

	return count <= rl.requests, nil
}

// CleanupExpired removes stale window rows; called periodically from main.
func (rl *RateLimiter) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := rl.pool.Exec(ctx, `DELETE FROM rate_limits WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
