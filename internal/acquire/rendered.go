package acquire

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/render"
)

// RenderedProvider reads the cause list off a rendering surface. The surface
// is owned for the duration of one Fetch and closed on every path.
type RenderedProvider struct {
	surface    render.Surface
	pageURL    string
	unattended bool
}

// NoteUnattended is added to content captured with nobody at the surface
const NoteUnattended = "Page fetched without an operator; a cause list behind a CAPTCHA will not be in the captured content."

// RenderedOption configures a RenderedProvider
type RenderedOption func(*RenderedProvider)

// Unattended marks the surface as having no operator
func Unattended() RenderedOption {
	return func(p *RenderedProvider) { p.unattended = true }
}

// NewRenderedProvider creates a provider that presents pageURL on surface
func NewRenderedProvider(surface render.Surface, pageURL string, opts ...RenderedOption) *RenderedProvider {
	p := &RenderedProvider{surface: surface, pageURL: pageURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *RenderedProvider) Name() string {
	return "rendered"
}

// Fetch opens the page, waits for the operator, and extracts the text. A
// document that cannot be emitted becomes a note on the content.
func (p *RenderedProvider) Fetch(ctx context.Context, req Request) (*model.Content, error) {
	defer func() {
		if closeErr := p.surface.Close(); closeErr != nil {
			zap.L().Warn("closing rendering surface", zap.Error(closeErr))
		}
	}()

	if err := p.surface.Open(ctx, p.pageURL); err != nil {
		return nil, eris.Wrapf(err, "open %s", p.pageURL)
	}
	if err := p.surface.WaitForOperator(ctx); err != nil {
		return nil, eris.Wrap(err, "wait for operator")
	}

	text, err := p.surface.ExtractText(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "extract page text")
	}

	content := &model.Content{
		Text:       text,
		Provenance: model.ProvenanceRendered,
		SourceURL:  p.pageURL,
	}
	if p.unattended {
		content.Notes = append(content.Notes, NoteUnattended)
	}

	if req.CaptureDocument {
		doc, err := p.surface.EmitDocument(ctx)
		if err != nil {
			zap.L().Warn("document capture failed", zap.Error(err))
			content.Notes = append(content.Notes, fmt.Sprintf("Document capture failed: %v", err))
		} else {
			content.Document = doc
		}
	}
	return content, nil
}
