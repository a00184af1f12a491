package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// RobotsChecker answers robots.txt questions for court sites, caching one
// parsed file per host
type RobotsChecker struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the host's crawl delay.
// An unreachable or unparseable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, eris.Wrap(err, "parse URL")
	}
	if parsed.Host == "" {
		return false, 0, eris.Errorf("URL has no host: %q", rawURL)
	}

	data, err := r.robotsFor(ctx, parsed)
	if err != nil {
		zap.L().Debug("robots.txt unavailable, allowing fetch",
			zap.String("host", parsed.Host),
			zap.Error(err),
		)
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	group := data.FindGroup(r.agent)
	if group == nil {
		return true, 0, nil
	}
	return group.Test(path), group.CrawlDelay, nil
}

func (r *RobotsChecker) robotsFor(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	host := target.Host

	r.mu.RLock()
	data, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := target.Scheme + "://" + host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create robots.txt request")
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch robots.txt")
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all
	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, eris.Wrap(err, "parse robots.txt")
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()

	return data, nil
}

// NormalizeUserAgent reduces a user agent to the product token robots.txt
// groups are matched against ("causelist/0.1 (+url)" -> "causelist")
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
