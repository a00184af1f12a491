// Package match locates a case inside unstructured cause-list text.
//
// Both entry points are total: any input yields either a match or nil, and
// nil is the only negative signal.
package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/causelist/internal/model"
)

const (
	// cnrContextLines is how many lines before and after a CNR hit are kept
	cnrContextLines = 3
	// partsContextChars is how many characters before and after a case-parts
	// hit are kept
	partsContextChars = 200
)

// Boundaries stand in for \b, which in Go only knows ASCII word
// characters. Letters and digits of any script count as word characters.
const (
	leadingBoundary  = `(?:^|[^\p{L}\p{N}_])`
	trailingBoundary = `(?:$|[^\p{L}\p{N}_])`
)

// Pattern names recorded on matches
const (
	PatternCNRLine        = "cnr:line"
	PatternTypeNumberYear = "parts:type-number-year"
	PatternSameLine       = "parts:type-number-year-line"
	PatternNumberYear     = "parts:number-year"
)

// Find dispatches on the query kind
func Find(text string, q model.Query) *model.Match {
	switch q.Kind {
	case model.QueryKindCNR:
		return ByCNR(text, q.CNR)
	case model.QueryKindParts:
		return ByParts(text, q.CaseType, q.Number, q.Year)
	default:
		return nil
	}
}

// ByCNR finds the first line containing cnr (case-sensitive) and extracts
// serial and court from the surrounding lines
func ByCNR(text, cnr string) *model.Match {
	if cnr == "" || !strings.Contains(text, cnr) {
		return nil
	}

	lines := splitLines(text)
	for i, line := range lines {
		if !strings.Contains(line, cnr) {
			continue
		}

		from := max(0, i-cnrContextLines)
		to := min(len(lines), i+cnrContextLines+1)
		context := strings.Join(lines[from:to], "\n")
		lineNo := i

		return &model.Match{
			Context: context,
			LineNo:  &lineNo,
			Serial:  ExtractSerial(context),
			Court:   ExtractCourt(context),
			Pattern: PatternCNRLine,
		}
	}

	// Unreachable unless cnr itself spans a line break
	return nil
}

// ByParts tries three patterns in order and returns on the first one that
// hits. Earlier patterns are more specific; the last one ignores the case
// type entirely and may match a different case with the same number/year.
func ByParts(text, caseType, number, year string) *model.Match {
	if caseType == "" || number == "" || year == "" {
		return nil
	}

	t := regexp.QuoteMeta(caseType)
	n := regexp.QuoteMeta(number)
	y := regexp.QuoteMeta(year)

	// Group 1 is the hit. A leading boundary consumes the character before
	// it, so the context window is measured from the group.
	candidates := []struct {
		name string
		expr string
	}{
		{PatternTypeNumberYear, `(?is)` + before(caseType) + `(` + t + after(caseType) + `.*?` + n + `.*?` + y + `)`},
		{PatternSameLine, `(?i)(` + t + `[^\n]*` + n + `[^\n]*` + y + `)`},
		{PatternNumberYear, `(?i)` + before(number) + `(` + n + `/` + y + `)` + after(year)},
	}

	for _, c := range candidates {
		re, err := regexp.Compile(c.expr)
		if err != nil {
			continue
		}
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		context := window(text, loc[2], loc[3], partsContextChars)
		return &model.Match{
			Context: context,
			Serial:  ExtractSerial(context),
			Pattern: c.name,
		}
	}

	return nil
}

// before returns the boundary required ahead of s. Only an edge that is a
// word character needs one.
func before(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if isWordRune(r) {
		return leadingBoundary
	}
	return ""
}

// after returns the boundary required behind s
func after(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	if isWordRune(r) {
		return trailingBoundary
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// window returns pad characters (runes) on each side of text[start:end],
// clamped to the text
func window(text string, start, end, pad int) string {
	from := start
	for i := 0; i < pad && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < pad && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:to]
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
