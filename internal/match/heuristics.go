package match

import (
	"regexp"
	"strings"
)

// Serial and court extraction are heuristics, not a parser. Cause-list layouts
// differ from court to court, so both extractors are lossy: an empty result
// means "not recognised", never "not present".
var (
	serialPattern = regexp.MustCompile(`(?i)\bSerial\b[:\s]*([0-9]+)`)
	courtPattern  = regexp.MustCompile(`Court\s*[:\-]\s*([A-Za-z0-9 ,.-]+)`)
)

// ExtractSerial returns the first "Serial <digits>" label value in window
func ExtractSerial(window string) string {
	m := serialPattern.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractCourt returns the first "Court: <name>" label value in window, trimmed
func ExtractCourt(window string) string {
	m := courtPattern.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
