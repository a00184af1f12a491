package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// ErrInvalidOutcome is returned for a result record whose found flag
// disagrees with its matches
var ErrInvalidOutcome = eris.New("invalid outcome")

// Method names the acquisition strategy that last produced cause-list content.
// The values are kept stable for consumers of existing result files.
type Method string

const (
	MethodAPI      Method = "api"                  // Structured provider
	MethodRendered Method = "selenium_interactive" // Rendered provider
)

// Provenance tags where a Content blob came from
type Provenance string

const (
	ProvenanceStructured Provenance = "structured"
	ProvenanceRendered   Provenance = "rendered"
)

// Content is one acquisition attempt's cause-list content. It is produced
// once per attempt and never mutated afterwards.
type Content struct {
	Text       string          // Text the matcher runs against
	Document   []byte          // Optional binary document (PDF, page snapshot)
	Provenance Provenance      // structured or rendered
	Payload    json.RawMessage // Structured response as received (structured only)
	SourceURL  string          // Page or endpoint the content came from
	Notes      []string        // Non-fatal problems hit while acquiring (e.g. document emission)
}

// Match is a best-effort location of the case inside cause-list content.
// Serial and Court are heuristic extractions and may be empty.
type Match struct {
	Context string `json:"context"`           // Text excerpt around the hit
	LineNo  *int   `json:"line_no,omitempty"` // Line index of the hit (CNR matches only)
	Serial  string `json:"serial,omitempty"`  // Serial number in the day's list
	Court   string `json:"court,omitempty"`   // Hearing court
	Pattern string `json:"pattern,omitempty"` // Which matcher rule hit (e.g. "cnr:line", "parts:number-year")
}

// CheckOutcome is the persisted record of one check.
// Found is true exactly when Matches is non-empty.
type CheckOutcome struct {
	Query        Query           `json:"query"`
	CheckedDate  string          `json:"checked_date"` // ISO date (YYYY-MM-DD)
	Method       Method          `json:"method,omitempty"`
	Found        bool            `json:"found"`
	Matches      []Match         `json:"matches"`
	Notes        []string        `json:"notes"`
	DocumentPath string          `json:"document_path,omitempty"`
	APIResponse  json.RawMessage `json:"api_response_sample,omitempty"`
}

// NewCheckOutcome creates an empty outcome for the query and date
func NewCheckOutcome(q Query, checkedDate string) *CheckOutcome {
	return &CheckOutcome{
		Query:       q,
		CheckedDate: checkedDate,
		Matches:     []Match{},
		Notes:       []string{},
	}
}

// AddMatch appends a match and marks the case as found
func (o *CheckOutcome) AddMatch(m Match) {
	o.Matches = append(o.Matches, m)
	o.Found = true
}

// AddNote appends a diagnostic note
func (o *CheckOutcome) AddNote(note string) {
	o.Notes = append(o.Notes, note)
}

// First returns the first match, if any
func (o *CheckOutcome) First() (Match, bool) {
	if len(o.Matches) == 0 {
		return Match{}, false
	}
	return o.Matches[0], true
}

// Validate checks a record read back from disk: the query must carry exactly
// one identifier and Found must agree with Matches
func (o *CheckOutcome) Validate() error {
	if err := o.Query.Validate(); err != nil {
		return err
	}
	if o.Found != (len(o.Matches) > 0) {
		return eris.Wrapf(ErrInvalidOutcome, "found=%t with %d matches", o.Found, len(o.Matches))
	}
	return nil
}
