// Package extract turns rendered cause-list pages into plain text lines the
// matcher can search.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Options controls how a node tree is rendered to lines
type Options struct {
	// RowSeparator, when set, renders each table row as one line with its
	// cells joined by the separator. Otherwise cells are ordinary blocks.
	RowSeparator string
}

// blockTags end the current line before and after their content
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"caption": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "ul": true, "title": true, "body": true, "option": true,
}

// skipTags never contribute visible text
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"iframe": true, "svg": true,
}

// Parse parses an HTML document
func Parse(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// LooksLikeHTML sniffs the first bytes of a document
func LooksLikeHTML(b []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(b[:min(len(b), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<body")) ||
		bytes.Contains(head, []byte("<table")) ||
		bytes.Contains(head, []byte("<div"))
}

// Lines renders the visible text under n, one block per line, skipping
// empty lines
func Lines(n *html.Node, opts Options) []string {
	w := &lineWriter{opts: opts}
	w.walk(n)
	w.flush()
	return w.lines
}

// Text is Lines joined with newlines
func Text(n *html.Node, opts Options) string {
	return strings.Join(Lines(n, opts), "\n")
}

// NodeText returns the whitespace-collapsed text under n on a single line
func NodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && skipTags[c.Data] {
			return
		}
		if c.Type == html.TextNode {
			if t := collapse(c.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

type lineWriter struct {
	opts  Options
	lines []string
	cur   []string
}

func (w *lineWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := collapse(n.Data); t != "" {
			w.cur = append(w.cur, t)
		}
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if n.Data == "br" {
			w.flush()
			return
		}
		if n.Data == "tr" && w.opts.RowSeparator != "" {
			w.flush()
			w.row(n)
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		w.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.flush()
	}
}

// row renders one table row as a single line
func (w *lineWriter) row(tr *html.Node) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if t := NodeText(c); t != "" {
			cells = append(cells, t)
		}
	}
	if len(cells) > 0 {
		w.lines = append(w.lines, strings.Join(cells, w.opts.RowSeparator))
	}
}

func (w *lineWriter) flush() {
	if len(w.cur) == 0 {
		return
	}
	w.lines = append(w.lines, strings.Join(w.cur, " "))
	w.cur = w.cur[:0]
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
