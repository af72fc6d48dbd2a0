// Package dates handles the YYYY-MM-DD business-day strings used as
// attendance and expense keys. Dates stay strings end to end so range
// filtering is plain lexicographic comparison.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Today returns the current business day in the server's timezone.
func Today() string {
	return time.Now().Format(Layout)
}

// Format renders t as a business-day key.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Validate rejects anything that does not parse back as YYYY-MM-DD.
func Validate(date string) error {
	if _, err := time.Parse(Layout, date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	return nil
}

// InRange reports whether date falls inside the inclusive [start, end]
// window. Empty bounds are open ends. Valid date keys compare correctly
// as strings, which is the whole point of the format.
func InRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}
