/*
Package limiter provides per-IP rate limiting for HTTP endpoints.

It uses the token bucket implementation from golang.org/x/time/rate, one bucket
per client address, with a background sweep that drops buckets that have
refilled completely so the map does not grow without bound.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"provchat/internal/pkg/errs"
	"provchat/internal/pkg/logx"
	"provchat/internal/pkg/resp"
)

const cleanupInterval = 3 * time.Minute

// IPRateLimiter tracks one token bucket per client IP address.
type IPRateLimiter struct {
	mu sync.RWMutex

	// limits maps a client IP address to its bucket.
	limits map[string]*rate.Limiter

	// r is the sustained event rate allowed per IP.
	r rate.Limit

	// b is the burst capacity of each bucket.
	b int
}

// NewIPRateLimiter returns an IPRateLimiter allowing rate r with burst b per IP
// and starts the background cleanup sweep.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	l := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go l.sweep()

	return l
}

// GetLimiter returns the bucket for ip, creating it on first sight.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.RLock()
	bucket, ok := l.limits[ip]
	l.mu.RUnlock()

	if !ok {
		l.mu.Lock()
		bucket, ok = l.limits[ip]
		if !ok {
			bucket = rate.NewLimiter(l.r, l.b)
			l.limits[ip] = bucket
		}
		l.mu.Unlock()
	}

	return bucket
}

// sweep periodically removes buckets that are back at full capacity,
// i.e. addresses that have been idle long enough to not matter.
func (l *IPRateLimiter) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		removed := 0
		for ip, bucket := range l.limits {
			if bucket.TokensAt(time.Now()) >= float64(bucket.Burst()) {
				delete(l.limits, ip)
				removed++
			}
		}
		remaining := len(l.limits)
		l.mu.Unlock()

		logx.Info("Rate limiter sweep finished",
			"removed", removed,
			"active", remaining)
	}
}

// ClientIP extracts the bare host from an http.Request remote address.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}

// Middleware wraps next with a per-IP rate check answering 429 on violation.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.GetLimiter(ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
