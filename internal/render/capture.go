package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/extract/adapters"
)

var (
	pageExts     = []string{".html", ".htm", ".txt"}
	documentExts = []string{".pdf"}
)

// CaptureSurface hands the page to the operator's own browser. The operator
// solves the CAPTCHA, saves the page (and optionally a PDF print) into the
// capture directory, then signals. Only files written after Open count.
type CaptureSurface struct {
	dir      string
	out      io.Writer
	signal   OperatorSignal
	registry *adapters.Registry
	now      func() time.Time

	url    string
	opened time.Time
}

// NewCaptureSurface creates an interactive surface that watches dir
func NewCaptureSurface(dir string, out io.Writer, signal OperatorSignal, registry *adapters.Registry) *CaptureSurface {
	if registry == nil {
		registry = adapters.NewRegistry()
	}
	return &CaptureSurface{
		dir:      dir,
		out:      out,
		signal:   signal,
		registry: registry,
		now:      time.Now,
	}
}

// Open prints the page and where to save it
func (s *CaptureSurface) Open(ctx context.Context, url string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrapf(err, "create capture directory %s", s.dir)
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		abs = s.dir
	}

	s.url = url
	// mtimes can be truncated to the second
	s.opened = s.now().Truncate(time.Second)

	_, _ = fmt.Fprintf(s.out, "Open the cause list in your browser:\n  %s\n", url)
	_, _ = fmt.Fprintf(s.out, "Select the court, solve the CAPTCHA, then save the page (.html or .txt)\n")
	_, _ = fmt.Fprintf(s.out, "and optionally a PDF print into:\n  %s\n", abs)
	return nil
}

// WaitForOperator blocks on the operator signal
func (s *CaptureSurface) WaitForOperator(ctx context.Context) error {
	if s.opened.IsZero() {
		return ErrNotOpen
	}
	return s.signal.Wait(ctx)
}

// ExtractText reads the newest saved page
func (s *CaptureSurface) ExtractText(ctx context.Context) (string, error) {
	if s.opened.IsZero() {
		return "", ErrNotOpen
	}
	path, err := s.newest(pageExts)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", eris.Wrapf(ErrNoPage, "nothing saved in %s", s.dir)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read captured page %s", path)
	}
	zap.L().Debug("using captured page", zap.String("path", path), zap.Int("bytes", len(body)))

	contentType := "text/plain"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		contentType = "text/html"
	}
	return s.registry.PageText(body, s.url, contentType), nil
}

// EmitDocument returns the newest saved PDF
func (s *CaptureSurface) EmitDocument(ctx context.Context) ([]byte, error) {
	if s.opened.IsZero() {
		return nil, ErrNotOpen
	}
	path, err := s.newest(documentExts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, eris.Wrapf(ErrNoDocument, "no PDF saved in %s", s.dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read captured document %s", path)
	}
	return data, nil
}

// Close forgets the session; captured files stay with the operator
func (s *CaptureSurface) Close() error {
	s.opened = time.Time{}
	s.url = ""
	return nil
}

// newest returns the most recently modified file with one of exts written
// since Open, or "" when there is none
func (s *CaptureSurface) newest(exts []string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", eris.Wrapf(err, "read capture directory %s", s.dir)
	}

	var best string
	var bestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if mod.Before(s.opened) {
			continue
		}
		if best == "" || mod.After(bestTime) {
			best = filepath.Join(s.dir, entry.Name())
			bestTime = mod
		}
	}
	return best, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
