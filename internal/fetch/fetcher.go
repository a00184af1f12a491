package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/worker"
)

const (
	fetchMaxAttempts    = 3
	defaultMaxBodyBytes = 10_000_000
)

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = eris.New("fetch disallowed by robots.txt")

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// TransportError reports a failure before any response arrived
// (connection refused, reset, timeout)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "fetch: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Fetcher fetches cause-list pages over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *RobotsChecker
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithLimiter rate-limits requests per host
func WithLimiter(l *worker.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithRobots checks robots.txt before each page fetch
func WithRobots(r *RobotsChecker) Option {
	return func(f *Fetcher) { f.robots = r }
}

// NewFetcher creates a Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig, opts ...Option) *Fetcher {
	transport := &http.Transport{
		Proxy: NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed court sites
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result contains a fetched page and its metadata
type Result struct {
	Body         []byte
	StatusCode   int
	ContentType  string
	LastModified string
	FinalURL     string
}

// Fetch performs a single GET of rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, eris.Wrap(err, "check robots.txt")
		}
		if !allowed {
			return nil, eris.Wrapf(ErrDisallowed, "%s", rawURL)
		}
		if f.limiter != nil && delay > 0 {
			if parsed, err := url.Parse(rawURL); err == nil {
				f.limiter.SetHostRate(parsed.Host, 1/delay.Seconds(), 1)
			}
		}
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}

	return &Result{
		Body:         body,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		FinalURL:     resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures (429, 5xx, transport errors)
// with linear backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Result, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == fetchMaxAttempts || ctx.Err() != nil {
			break
		}

		zap.L().Debug("retrying page fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		fetchSleepFunc(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

// isRetryableFetchError reports whether another attempt could succeed
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrDisallowed) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
