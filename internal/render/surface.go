// Package render is the boundary to whatever shows a cause-list page to the
// operator. The rendered acquisition path drives a Surface through
// Open → WaitForOperator → ExtractText → EmitDocument → Close.
package render

import (
	"context"

	"github.com/rotisserie/eris"
)

var (
	// ErrNoDocument means the surface has no document representation of the
	// current view
	ErrNoDocument = eris.New("no document captured")

	// ErrNoPage means nothing was captured to extract text from
	ErrNoPage = eris.New("no captured page")

	// ErrOperatorCancelled means the operator wait ended without a signal
	ErrOperatorCancelled = eris.New("operator wait cancelled")

	// ErrNotOpen is returned when a surface is used before Open
	ErrNotOpen = eris.New("surface not opened")
)

// Surface presents a page and hands back what was rendered
type Surface interface {
	// Open presents url to the operator (or loads it)
	Open(ctx context.Context, url string) error

	// WaitForOperator blocks until the operator signals the page is ready
	WaitForOperator(ctx context.Context) error

	// ExtractText returns the visible text of the current view
	ExtractText(ctx context.Context) (string, error)

	// EmitDocument returns a binary document of the current view
	EmitDocument(ctx context.Context) ([]byte, error)

	// Close releases the surface; safe to call more than once
	Close() error
}
