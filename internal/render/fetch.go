package render

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/causelist/internal/extract/adapters"
	"github.com/ppiankov/causelist/internal/fetch"
)

// PageFetcher loads a page over HTTP
type PageFetcher interface {
	FetchWithRetry(ctx context.Context, url string) (*fetch.Result, error)
}

// FetchSurface loads the page directly, with nobody in the loop. Court
// sites that gate the board behind a CAPTCHA return the form instead.
type FetchSurface struct {
	fetcher  PageFetcher
	registry *adapters.Registry
	signal   OperatorSignal
	result   *fetch.Result
}

// NewFetchSurface creates a headless surface
func NewFetchSurface(fetcher PageFetcher, registry *adapters.Registry) *FetchSurface {
	if registry == nil {
		registry = adapters.NewRegistry()
	}
	return &FetchSurface{
		fetcher:  fetcher,
		registry: registry,
		signal:   Resolved(),
	}
}

// Open fetches url
func (s *FetchSurface) Open(ctx context.Context, url string) error {
	result, err := s.fetcher.FetchWithRetry(ctx, url)
	if err != nil {
		return eris.Wrapf(err, "load %s", url)
	}
	if result.FinalURL == "" {
		result.FinalURL = url
	}
	s.result = result
	return nil
}

// WaitForOperator returns at once
func (s *FetchSurface) WaitForOperator(ctx context.Context) error {
	return s.signal.Wait(ctx)
}

// ExtractText converts the fetched body
func (s *FetchSurface) ExtractText(ctx context.Context) (string, error) {
	if s.result == nil {
		return "", ErrNotOpen
	}
	return s.registry.PageText(s.result.Body, s.result.FinalURL, s.result.ContentType), nil
}

// EmitDocument returns the fetched body as is
func (s *FetchSurface) EmitDocument(ctx context.Context) ([]byte, error) {
	if s.result == nil {
		return nil, ErrNotOpen
	}
	if len(s.result.Body) == 0 {
		return nil, ErrNoDocument
	}
	return append([]byte(nil), s.result.Body...), nil
}

// Close drops the fetched page
func (s *FetchSurface) Close() error {
	s.result = nil
	return nil
}
