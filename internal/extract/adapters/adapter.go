// Package adapters picks a court-site specific way of rendering a cause-list
// page to text, falling back to a generic renderer.
package adapters

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ppiankov/causelist/internal/extract"
)

// Adapter renders pages from one family of court sites
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter understands the page
	CanHandle(url string, contentType string) bool

	// ExtractText renders the cause-list portion of the page as lines
	ExtractText(doc *html.Node) string
}

// Registry holds site adapters and the generic fallback
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{generic: NewGenericAdapter()}
	registry.Register(NewECourtsAdapter())
	return registry
}

// Register adds an adapter ahead of the generic fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first adapter that handles the page, or the generic one
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url, contentType) {
			return adapter
		}
	}
	return r.generic
}

// PageText converts a captured page to matcher text. Non-HTML bodies are
// returned as-is; so is HTML the parser rejects.
func (r *Registry) PageText(body []byte, url string, contentType string) string {
	raw := string(body)
	if !isHTML(body, contentType) {
		return raw
	}

	doc, err := extract.Parse(raw)
	if err != nil {
		zap.L().Warn("could not parse page, matching raw content", zap.String("url", url), zap.Error(err))
		return raw
	}

	adapter := r.FindAdapter(url, contentType)
	zap.L().Debug("extracting page text", zap.String("adapter", adapter.Name()), zap.String("url", url))
	return adapter.ExtractText(doc)
}

func isHTML(body []byte, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "html") {
		return true
	}
	if ct != "" && !strings.HasPrefix(ct, "application/octet-stream") {
		return false
	}
	return extract.LooksLikeHTML(body)
}

// BaseAdapter provides node helpers shared by adapters
type BaseAdapter struct{}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(b.GetAttribute(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node (depth-first) matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := b.FindFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}

// FindAll finds all nodes matching a predicate
func (b *BaseAdapter) FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return results
}
