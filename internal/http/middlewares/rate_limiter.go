package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter allows limit requests per client IP in each fixed window.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	return newRateLimiter(limit, window, time.Now).middleware
}

type bucket struct {
	count int
	start time.Time
}

type rateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		limit:     limit,
		window:    window,
		now:       now,
		buckets:   make(map[string]*bucket),
		lastSweep: now(),
	}
}

func (l *rateLimiter) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if l.limit <= 0 {
			return next(c)
		}

		retryAfter, ok := l.allow(c.RealIP())
		if !ok {
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// allow counts a request from key. When the limit is reached it returns how
// long until the key's window ends.
func (l *rateLimiter) allow(key string) (time.Duration, bool) {
	t := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if t.Sub(l.lastSweep) > l.window {
		l.sweep(t)
	}

	b, ok := l.buckets[key]
	if !ok || t.Sub(b.start) > l.window {
		b = &bucket{start: t}
		l.buckets[key] = b
	}

	if b.count >= l.limit {
		return l.window - t.Sub(b.start), false
	}

	b.count++
	return 0, true
}

// sweep drops the buckets whose window has ended.
func (l *rateLimiter) sweep(t time.Time) {
	for key, b := range l.buckets {
		if t.Sub(b.start) > l.window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = t
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
