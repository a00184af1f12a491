package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidQueryKind is returned when a query names neither a CNR nor a
// complete case type/number/year triple, or names both.
var ErrInvalidQueryKind = eris.New("invalid query: supply either a CNR or a case type, number and year")

// QueryKind tags which identifier a Query carries
type QueryKind string

const (
	QueryKindCNR   QueryKind = "cnr"        // Case Number Record
	QueryKindParts QueryKind = "case_parts" // Case type + number + year
)

// CNRLength is the documented length of a CNR. It is not enforced.
const CNRLength = 16

// RawQuery is the case identifier as the user typed it
type RawQuery struct {
	CNR      string
	CaseType string
	Number   string
	Year     string
}

// Query is the canonical case identifier. Exactly one variant is populated:
// CNR for QueryKindCNR, CaseType/Number/Year for QueryKindParts.
type Query struct {
	Kind     QueryKind `json:"kind"`
	CNR      string    `json:"cnr,omitempty"`
	CaseType string    `json:"case_type,omitempty"`
	Number   string    `json:"case_number,omitempty"`
	Year     string    `json:"case_year,omitempty"`
}

// Normalize trims every field and builds the canonical query
func Normalize(raw RawQuery) (Query, error) {
	cnr := strings.TrimSpace(raw.CNR)
	caseType := strings.TrimSpace(raw.CaseType)
	number := strings.TrimSpace(raw.Number)
	year := strings.TrimSpace(raw.Year)

	anyPart := caseType != "" || number != "" || year != ""
	allParts := caseType != "" && number != "" && year != ""

	switch {
	case cnr != "" && anyPart:
		return Query{}, eris.Wrap(ErrInvalidQueryKind, "both a CNR and case parts were supplied")
	case cnr != "":
		return NewCNRQuery(cnr), nil
	case allParts:
		return NewPartsQuery(caseType, number, year), nil
	case anyPart:
		return Query{}, eris.Wrap(ErrInvalidQueryKind, "case type, number and year must all be supplied")
	default:
		return Query{}, ErrInvalidQueryKind
	}
}

// NewCNRQuery builds a CNR query without validating the CNR format
func NewCNRQuery(cnr string) Query {
	return Query{Kind: QueryKindCNR, CNR: cnr}
}

// NewPartsQuery builds a case type/number/year query
func NewPartsQuery(caseType, number, year string) Query {
	return Query{Kind: QueryKindParts, CaseType: caseType, Number: number, Year: year}
}

// Validate checks that exactly one variant is populated
func (q Query) Validate() error {
	hasParts := q.CaseType != "" || q.Number != "" || q.Year != ""
	switch q.Kind {
	case QueryKindCNR:
		if q.CNR == "" || hasParts {
			return ErrInvalidQueryKind
		}
	case QueryKindParts:
		if q.CNR != "" || q.CaseType == "" || q.Number == "" || q.Year == "" {
			return ErrInvalidQueryKind
		}
	default:
		return ErrInvalidQueryKind
	}
	return nil
}

// HasConventionalCNR reports whether the CNR has the documented 16 characters.
// Used for warnings only.
func (q Query) HasConventionalCNR() bool {
	return q.Kind == QueryKindCNR && len(q.CNR) == CNRLength
}

// Key returns a stable, human-readable identifier for the query
func (q Query) Key() string {
	if q.Kind == QueryKindCNR {
		return q.CNR
	}
	return q.CaseType + " " + q.Number + "/" + q.Year
}

func (q Query) String() string {
	return string(q.Kind) + ":" + q.Key()
}
