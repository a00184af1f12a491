package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/cache"
	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/worker"
)

const (
	defaultStructuredTimeout = 30 * time.Second
	maxPayloadBytes          = 10 << 20
)

// causeListRequest is the body posted to the cause-list API
type causeListRequest struct {
	StateCode     string `json:"state_code"`
	DistrictCode  string `json:"district_code"`
	CourtComplex  string `json:"court_complex"`
	CourtCode     string `json:"court_code"`
	CauseListDate string `json:"cause_list_date"`
}

// StructuredProvider calls the authenticated cause-list API once per fetch.
// It never retries: a failure goes straight back to the caller.
type StructuredProvider struct {
	cfg        model.StructuredConfig
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *worker.Limiter
	cache      cache.Cache
}

// StructuredOption configures a StructuredProvider
type StructuredOption func(*StructuredProvider)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) StructuredOption {
	return func(p *StructuredProvider) { p.httpClient = client }
}

// WithLimiter paces API calls
func WithLimiter(limiter *worker.Limiter) StructuredOption {
	return func(p *StructuredProvider) { p.limiter = limiter }
}

// WithCache serves repeated requests from c
func WithCache(c cache.Cache) StructuredOption {
	return func(p *StructuredProvider) { p.cache = c }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) StructuredOption {
	return func(p *StructuredProvider) { p.userAgent = ua }
}

// NewStructuredProvider creates the API provider. apiKey is the bearer
// credential; an empty key makes every Fetch fail with ErrNoCredential.
func NewStructuredProvider(cfg model.StructuredConfig, apiKey string, opts ...StructuredOption) *StructuredProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultStructuredTimeout
	}
	p := &StructuredProvider{
		cfg:        cfg,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *StructuredProvider) Name() string {
	return "structured"
}

// Fetch requests the cause list for req and renders the payload as indented
// JSON text, one field per line, for the matcher
func (p *StructuredProvider) Fetch(ctx context.Context, req Request) (*model.Content, error) {
	if p.apiKey == "" {
		return nil, eris.Wrap(ErrNoCredential, "no API key configured (ECOURTS_API_KEY)")
	}
	if p.cfg.Endpoint == "" {
		return nil, eris.Wrap(ErrRemoteUnavailable, "no API endpoint configured")
	}

	body := p.requestBody(req)
	key := cache.Key(p.cfg.Endpoint, body.StateCode, body.DistrictCode, body.CourtComplex, body.CourtCode, body.CauseListDate)

	if p.cache != nil {
		if payload, ok := p.cache.Get(key); ok {
			zap.L().Debug("structured payload from cache", zap.String("date", body.CauseListDate))
			return p.content(payload)
		}
	}

	payload, err := p.call(ctx, body)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(key, payload, 0); err != nil {
			zap.L().Warn("could not cache structured payload", zap.Error(err))
		}
	}
	return p.content(payload)
}

func (p *StructuredProvider) requestBody(req Request) causeListRequest {
	state := req.Location.StateCode
	if state == "" {
		state = p.cfg.StateCode
	}
	district := req.Location.DistrictCode
	if district == "" {
		district = p.cfg.DistrictCode
	}
	return causeListRequest{
		StateCode:     state,
		DistrictCode:  district,
		CourtComplex:  req.Location.CourtComplex,
		CourtCode:     req.Location.Court,
		CauseListDate: req.DateString(),
	}
}

func (p *StructuredProvider) call(ctx context.Context, body causeListRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.cfg.Endpoint); err != nil {
			return nil, eris.Wrap(ErrRemote, fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "encode cause-list request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, eris.Wrap(ErrRemote, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		httpReq.Header.Set("User-Agent", p.userAgent)
	}

	zap.L().Debug("calling cause-list API",
		zap.String("endpoint", p.cfg.Endpoint),
		zap.String("date", body.CauseListDate),
		zap.String("court_complex", body.CourtComplex),
	)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(ErrRemote, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, eris.Wrap(ErrRemote, fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Wrap(ErrRemote, fmt.Sprintf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	if !json.Valid(payload) {
		return nil, eris.Wrap(ErrRemote, "response is not JSON")
	}
	return payload, nil
}

func (p *StructuredProvider) content(payload []byte) (*model.Content, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return nil, eris.Wrap(ErrRemote, fmt.Sprintf("compact response: %v", err))
	}
	var text bytes.Buffer
	if err := json.Indent(&text, compact.Bytes(), "", "  "); err != nil {
		return nil, eris.Wrap(ErrRemote, fmt.Sprintf("format response: %v", err))
	}
	return &model.Content{
		Text:       text.String(),
		Provenance: model.ProvenanceStructured,
		Payload:    json.RawMessage(compact.Bytes()),
		SourceURL:  p.cfg.Endpoint,
	}, nil
}
