// Package worker paces outbound requests to court sites and the cause-list API.
package worker

import (
	"context"
	"net/url"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Limiter holds one token bucket per host
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-host limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a request to rawURL's host is allowed or ctx is done
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.forHost(host).Wait(ctx)
}

// SetHostRate slows one host down to requestsPerSecond. A host already
// limited to that rate or slower keeps its bucket, so repeated calls with
// the same crawl delay do not refill it.
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Limit(requestsPerSecond)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.limiters[host]; ok && existing.Limit() <= limit {
		return
	}
	l.limiters[host] = rate.NewLimiter(limit, burst)
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[host]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[host] = limiter
	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "parse URL %q", rawURL)
	}
	return parsed.Host, nil
}
