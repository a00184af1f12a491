package pipeline

import (
	"strings"
	"time"
	_ "time/tzdata" // Asia/Kolkata on hosts without a zoneinfo database

	"github.com/rotisserie/eris"

	"github.com/ppiankov/causelist/internal/model"
)

// LoadLocation resolves a configured time zone name, defaulting to UTC
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, eris.Wrapf(err, "load time zone %q", name)
	}
	return loc, nil
}

// ResolveDate turns "today", "tomorrow" or a YYYY-MM-DD date into midnight
// of that day in loc. An empty choice means today.
func ResolveDate(choice string, now time.Time, loc *time.Location) (time.Time, error) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch c := strings.ToLower(strings.TrimSpace(choice)); c {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	default:
		d, err := time.ParseInLocation(model.DateLayout, c, loc)
		if err != nil {
			return time.Time{}, eris.Wrapf(model.ErrInvalidDate, "%q", choice)
		}
		return d, nil
	}
}
