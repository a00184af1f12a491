package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/causelist/internal/model"
)

// RenderSummary prints a human summary of the outcome
func RenderSummary(w io.Writer, outcome *model.CheckOutcome) {
	_, _ = fmt.Fprintf(w, "Query:   %s\n", outcome.Query)
	_, _ = fmt.Fprintf(w, "Date:    %s\n", outcome.CheckedDate)
	if outcome.Method != "" {
		_, _ = fmt.Fprintf(w, "Method:  %s\n", outcome.Method)
	}

	m, found := outcome.First()
	if !found {
		_, _ = fmt.Fprintf(w, "Result:  ✗ not found\n")
	} else {
		_, _ = fmt.Fprintf(w, "Result:  ✓ found\n")
		if m.Serial != "" {
			_, _ = fmt.Fprintf(w, "Serial:  %s\n", m.Serial)
		}
		if m.Court != "" {
			_, _ = fmt.Fprintf(w, "Court:   %s\n", m.Court)
		}
		_, _ = fmt.Fprintf(w, "Context:\n")
		for _, line := range strings.Split(m.Context, "\n") {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if outcome.DocumentPath != "" {
		_, _ = fmt.Fprintf(w, "Document: %s\n", outcome.DocumentPath)
	}
	for _, note := range outcome.Notes {
		_, _ = fmt.Fprintf(w, "Note:    %s\n", note)
	}
}
