// Package ratelimit provides the in-process request throttle for the
// classification API.
//
// The limiter counts requests per client over a fixed window. Classification
// is CPU-bound model work, so the throttle guards the model path rather than
// the cheap health and info endpoints. There is no external rate limit
// service; counters live in process memory and reset when it restarts.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Decision is the result of a throttle check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	Limit      int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter throttles requests per client key over a fixed window. A nil
// Limiter allows every request, which is how a disabled throttle is wired.
type Limiter struct {
	limit   int64
	window  time.Duration
	buckets sync.Map // client key → *counter
}

type counter struct {
	mu        sync.Mutex
	count     int64
	windowEnd time.Time
}

// NewLimiter creates a limiter allowing requestsPerWindow requests from each
// client key per window.
func NewLimiter(requestsPerWindow int, window time.Duration) *Limiter {
	return &Limiter{limit: int64(requestsPerWindow), window: window}
}

// Check consumes one request from the client's budget and reports whether it
// is allowed, along with quota metadata for response headers.
func (l *Limiter) Check(client string) *Decision {
	if l == nil {
		return &Decision{Allowed: true}
	}

	c := l.getOrCreateCounter(client)
	allowed, remaining, resetAt := c.tryConsume(l.limit, l.window, time.Now())
	decision := &Decision{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     l.limit,
		ResetAt:   resetAt,
	}
	if !allowed {
		decision.RetryAfter = time.Until(resetAt)
	}
	return decision
}

func (l *Limiter) getOrCreateCounter(client string) *counter {
	if v, ok := l.buckets.Load(client); ok {
		return v.(*counter)
	}
	actual, _ := l.buckets.LoadOrStore(client, &counter{})
	return actual.(*counter)
}

// tryConsume attempts to consume one request from the counter.
// Returns (allowed, remaining, windowEnd).
func (c *counter) tryConsume(limit int64, window time.Duration, now time.Time) (bool, int64, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.After(c.windowEnd) {
		c.count = 0
		c.windowEnd = now.Add(window)
	}

	if c.count >= limit {
		return false, 0, c.windowEnd
	}

	c.count++
	return true, limit - c.count, c.windowEnd
}

// ClientKey identifies the caller for throttling. Proxied requests are keyed
// by the first X-Forwarded-For hop, direct ones by the remote address.
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ParseUnit converts a window unit string to a time.Duration.
func ParseUnit(unit string) time.Duration {
	switch strings.ToLower(unit) {
	case "second":
		return time.Second
	case "minute":
		return time.Minute
	case "hour":
		return time.Hour
	case "day":
		return 24 * time.Hour
	default:
		return time.Minute
	}
}
