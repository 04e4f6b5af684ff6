package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(ip)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// generateRateLimitKey groups requests by client and endpoint, with dynamic
// segments folded so /products/1 and /products/2 share a counter.
func (mw *Middleware) generateRateLimitKey(ip, endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")

	parts := strings.Split(endpoint, "/")
	if len(parts) == 3 && parts[1] == "products" && parts[2] != "types" && parts[2] != "suggest" {
		endpoint = "/products/:id"
	}

	return fmt.Sprintf("%s:%s", ip, endpoint)
}

// RateLimitMiddleware counts requests per client and endpoint in fixed
// windows. Cache errors let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := mw.cfg.RateLimit
			if !cfg.Enabled || !mw.cacheService.Enabled() || cfg.RequestsPerWindow <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Skip rate limiting for health checks and metrics
			if r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			key := mw.generateRateLimitKey(clientIP, r.URL.Path)
			limit, window := cfg.RequestsPerWindow, cfg.Window

			count, err := mw.cacheService.IncrementRateLimit(key, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("key", key),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
