package versioning

import (
	"fmt"
	"strings"
	"time"
)

// InvalidDate is returned in place of a formatted timestamp that could not be parsed.
const InvalidDate = "Invalid Date"

// DisplayLayout renders e.g. "Jan 5, 2024, 03:45 PM".
const DisplayLayout = "Jan 2, 2006, 03:04 PM"

// Layouts accepted by ParseTimestamp, tried in order. Inputs without a zone
// offset are read in the formatter's location, except date-only values which
// are UTC midnight.
var (
	zonedLayouts = []string{time.RFC3339Nano}
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}
	dateLayout   = "2006-01-02"
)

// Formatter renders stored timestamps for display in a fixed location.
type Formatter struct {
	loc *time.Location
}

// NewFormatter returns a Formatter for loc. A nil loc means UTC.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}

	return &Formatter{loc: loc}
}

// Location returns the display location.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// Parse reads an ISO-8601 timestamp.
func (f *Formatter) Parse(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
}

// Format renders ts with DisplayLayout. On unparseable input it returns
// InvalidDate together with an error wrapping ErrInvalidTimestamp.
func (f *Formatter) Format(ts string) (string, error) {
	t, err := f.Parse(ts)
	if err != nil {
		return InvalidDate, err
	}

	return t.In(f.loc).Format(DisplayLayout), nil
}

var defaultFormatter = NewFormatter(time.UTC)

// FormatVersionTimestamp renders ts in UTC with DisplayLayout.
func FormatVersionTimestamp(ts string) (string, error) {
	return defaultFormatter.Format(ts)
}

// ParseTimestamp reads ts the way FormatVersionTimestamp does.
func ParseTimestamp(ts string) (time.Time, error) {
	return defaultFormatter.Parse(ts)
}
