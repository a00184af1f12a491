package adapters

import (
	"golang.org/x/net/html"

	"github.com/ppiankov/causelist/internal/extract"
)

// GenericAdapter renders any page: one line per visible block
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates the fallback adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string, contentType string) bool {
	return true
}

// ExtractText renders the whole document
func (a *GenericAdapter) ExtractText(doc *html.Node) string {
	return extract.Text(doc, extract.Options{})
}
