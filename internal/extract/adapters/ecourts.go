package adapters

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/causelist/internal/extract"
)

// rowSeparator joins cells of one cause-list row
const rowSeparator = " | "

// ECourtsAdapter handles district court sites (*.dcourts.gov.in) and the
// eCourts services portal, which publish the daily board as HTML tables
type ECourtsAdapter struct {
	BaseAdapter
	hosts []string
}

// NewECourtsAdapter creates the eCourts adapter
func NewECourtsAdapter() *ECourtsAdapter {
	return &ECourtsAdapter{
		hosts: []string{"dcourts.gov.in", "ecourts.gov.in"},
	}
}

// Name returns the adapter name
func (a *ECourtsAdapter) Name() string {
	return "ecourts"
}

// CanHandle matches eCourts hosts
func (a *ECourtsAdapter) CanHandle(rawURL string, contentType string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range a.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractText renders the page with one line per table row, so a case's
// CNR, serial and parties stay on the same line. When the main content area
// holds the board tables, navigation and footers around it are dropped.
func (a *ECourtsAdapter) ExtractText(doc *html.Node) string {
	root := doc
	if main := a.mainContent(doc); main != nil && a.hasTable(main) {
		root = main
	}
	return extract.Text(root, extract.Options{RowSeparator: rowSeparator})
}

func (a *ECourtsAdapter) mainContent(doc *html.Node) *html.Node {
	return a.FindFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		return n.Data == "main" ||
			a.GetAttribute(n, "id") == "content" ||
			a.GetAttribute(n, "role") == "main" ||
			a.HasClass(n, "content-area")
	})
}

func (a *ECourtsAdapter) hasTable(n *html.Node) bool {
	tables := a.FindAll(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "table"
	})
	return len(tables) > 0
}
