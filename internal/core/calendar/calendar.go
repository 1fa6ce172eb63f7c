// Package calendar handles the date strings stored on members and relations.
//
// Dates are kept as ISO strings at year, month or day precision ("1950",
// "1950-03", "1950-03-14"). Two sentinels stand in for missing data: Unknown
// for an unknown calendar date and OpenEnd for a relation that has not ended.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Unknown is the placeholder for an unknown date.
	Unknown = "0000-01-01"
	// OpenEnd marks an ongoing relation in legacy data.
	OpenEnd = "0000-00-00"
)

var layouts = map[int]string{
	4:  "2006",
	7:  "2006-01",
	10: "2006-01-02",
}

// CoerceLegacy applies the import default policy: zero, empty or absent
// dates become Unknown. Anything else is returned trimmed and unchecked.
func CoerceLegacy(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" || v == "0" {
		return Unknown
	}
	return v
}

// IsUnknown reports whether s is empty or one of the sentinels.
func IsUnknown(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "0", Unknown, OpenEnd:
		return true
	}
	return false
}

// IsOpen reports whether an end date leaves a relation ongoing.
func IsOpen(end string) bool {
	v := strings.TrimSpace(end)
	return v == "" || v == OpenEnd
}

// IsReal reports whether s is a well-formed calendar date at any precision.
func IsReal(s string) bool {
	return !IsUnknown(s) && Check(s) == nil
}

// Check validates a real date string. Sentinels are rejected.
func Check(s string) error {
	if IsUnknown(s) {
		return fmt.Errorf("date %q is a placeholder, not a date", s)
	}
	layout, ok := layouts[len(s)]
	if !ok {
		return fmt.Errorf("date %q must be YYYY, YYYY-MM or YYYY-MM-DD", s)
	}
	if _, err := time.Parse(layout, s); err != nil {
		return fmt.Errorf("date %q is not a calendar date", s)
	}
	return nil
}

// CheckOrUnknown accepts a real date or the Unknown sentinel.
func CheckOrUnknown(s string) error {
	if s == Unknown {
		return nil
	}
	return Check(s)
}

// Compare orders two real dates at their common precision, so "1999" and
// "1999-05-01" compare equal.
func Compare(a, b string) int {
	n := min(len(a), len(b))
	return strings.Compare(a[:n], b[:n])
}

// NotBefore reports whether end is not earlier than start. An unknown value
// on either side cannot be ordered and is accepted.
func NotBefore(end, start string) bool {
	if IsUnknown(end) || IsUnknown(start) {
		return true
	}
	return Compare(end, start) >= 0
}
