// Package pipeline runs one case check: structured acquisition when asked
// for, the rendered fallback when the case is still missing, then a single
// write of the outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/acquire"
	"github.com/ppiankov/causelist/internal/match"
	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/render"
)

// Notes appended to the outcome
const (
	NoteNoCredential   = "API mode requested but ECOURTS_API_KEY not set."
	NoteNotInAPI       = "Case not found in the API response."
	NoteNotInRendered  = "Case not found in the displayed cause list content."
	NoteOperatorCancel = "Operator wait was cancelled before the page was captured."
)

// Sink persists a finished outcome
type Sink interface {
	Save(outcome *model.CheckOutcome) error
}

// DocumentStore keeps a captured cause-list document and returns its path
type DocumentStore interface {
	SaveDocument(checkedDate string, data []byte) (string, error)
}

// Checker decides which providers run and in what order
type Checker struct {
	structured acquire.Provider
	rendered   acquire.Provider
	documents  DocumentStore
	sink       Sink
}

// Option configures a Checker
type Option func(*Checker)

// WithStructured enables the structured attempt before the rendered one
func WithStructured(p acquire.Provider) Option {
	return func(c *Checker) { c.structured = p }
}

// WithDocumentStore saves captured documents
func WithDocumentStore(d DocumentStore) Option {
	return func(c *Checker) { c.documents = d }
}

// NewChecker creates a checker that always has the rendered fallback
func NewChecker(rendered acquire.Provider, sink Sink, opts ...Option) *Checker {
	c := &Checker{rendered: rendered, sink: sink}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check normalizes raw, acquires and searches the cause list for req, and
// persists the outcome once. An invalid query returns before anything runs
// or is written. The outcome is returned even when persisting fails.
func (c *Checker) Check(ctx context.Context, raw model.RawQuery, req acquire.Request) (*model.CheckOutcome, error) {
	query, err := model.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if query.Kind == model.QueryKindCNR && !query.HasConventionalCNR() {
		zap.L().Warn("CNR is usually 16 characters", zap.String("cnr", query.CNR), zap.Int("length", len(query.CNR)))
	}

	outcome := model.NewCheckOutcome(query, req.DateString())

	if c.structured != nil {
		c.tryStructured(ctx, query, req, outcome)
	}
	if !outcome.Found {
		c.tryRendered(ctx, query, req, outcome)
	}

	if err := c.sink.Save(outcome); err != nil {
		return outcome, eris.Wrap(err, "persist outcome")
	}
	return outcome, nil
}

func (c *Checker) tryStructured(ctx context.Context, query model.Query, req acquire.Request, outcome *model.CheckOutcome) {
	content, err := c.structured.Fetch(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, acquire.ErrNoCredential):
			zap.L().Warn("structured access skipped", zap.Error(err))
			outcome.AddNote(NoteNoCredential)
		case errors.Is(err, acquire.ErrRemoteUnavailable):
			zap.L().Warn("structured access skipped", zap.Error(err))
			outcome.AddNote(fmt.Sprintf("API unavailable: %v", err))
		default:
			zap.L().Warn("structured access failed, falling back", zap.String("provider", c.structured.Name()), zap.Error(err))
			outcome.AddNote(fmt.Sprintf("API error: %v", err))
		}
		return
	}

	outcome.Method = model.MethodAPI
	outcome.APIResponse = content.Payload
	for _, note := range content.Notes {
		outcome.AddNote(note)
	}

	if m := match.Find(content.Text, query); m != nil {
		zap.L().Info("case found in structured payload", zap.String("query", query.Key()))
		outcome.AddMatch(*m)
		return
	}
	outcome.AddNote(NoteNotInAPI)
}

func (c *Checker) tryRendered(ctx context.Context, query model.Query, req acquire.Request, outcome *model.CheckOutcome) {
	content, err := c.rendered.Fetch(ctx, req)
	if err != nil {
		zap.L().Warn("rendered capture failed", zap.String("provider", c.rendered.Name()), zap.Error(err))
		if errors.Is(err, render.ErrOperatorCancelled) {
			outcome.AddNote(NoteOperatorCancel)
			return
		}
		outcome.AddNote(fmt.Sprintf("Rendered capture failed: %v", err))
		return
	}

	outcome.Method = model.MethodRendered
	for _, note := range content.Notes {
		outcome.AddNote(note)
	}
	c.saveDocument(content, outcome)

	if m := match.Find(content.Text, query); m != nil {
		zap.L().Info("case found in rendered page", zap.String("query", query.Key()))
		outcome.AddMatch(*m)
		return
	}
	outcome.AddNote(NoteNotInRendered)
}

func (c *Checker) saveDocument(content *model.Content, outcome *model.CheckOutcome) {
	if len(content.Document) == 0 || c.documents == nil {
		return
	}
	path, err := c.documents.SaveDocument(outcome.CheckedDate, content.Document)
	if err != nil {
		zap.L().Warn("could not save cause-list document", zap.Error(err))
		outcome.AddNote(fmt.Sprintf("Could not save cause-list document: %v", err))
		return
	}
	outcome.DocumentPath = path
}
