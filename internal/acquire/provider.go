// Package acquire holds the two ways of obtaining a day's cause list: the
// structured API and the operator-rendered page.
package acquire

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/causelist/internal/model"
)

var (
	// ErrRemoteUnavailable means the API is not configured (no endpoint)
	ErrRemoteUnavailable = eris.New("structured access unavailable")

	// ErrNoCredential means no API key is configured
	ErrNoCredential = eris.New("structured access has no credential")

	// ErrRemote means the API call failed or returned a non-success status
	ErrRemote = eris.New("structured access failed")
)

// Location narrows a cause list to one court
type Location struct {
	StateCode    string
	DistrictCode string
	CourtComplex string
	Court        string
}

// Request describes which cause list to acquire
type Request struct {
	Date            time.Time
	Location        Location
	CaptureDocument bool
}

// DateString returns the request date as YYYY-MM-DD
func (r Request) DateString() string {
	return r.Date.Format(model.DateLayout)
}

// Provider acquires cause-list content
type Provider interface {
	// Name returns the provider name used in logs and notes
	Name() string

	// Fetch acquires the content for req
	Fetch(ctx context.Context, req Request) (*model.Content, error)
}
