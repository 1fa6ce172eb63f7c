// Package member contains the pure rules for member records: sex codes,
// natural keys and the deceased check.
package member

import (
	"fmt"
	"strings"

	"github.com/example/kin/internal/core/calendar"
)

// LegacySex is the positional sex code used by mirror rows. The numbering is
// fixed by the legacy data and must not be reordered.
type LegacySex int

const (
	LegacyMale        LegacySex = 0
	LegacyFemale      LegacySex = 1
	LegacyInlawMale   LegacySex = 2
	LegacyInlawFemale LegacySex = 3
)

// Sex is the normalized sex stored on a member.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// MapLegacySex maps a legacy code to M/F. Codes outside the table report
// ok=false and must be left unmapped.
func MapLegacySex(code LegacySex) (Sex, bool) {
	switch code {
	case LegacyMale, LegacyInlawMale:
		return SexMale, true
	case LegacyFemale, LegacyInlawFemale:
		return SexFemale, true
	}
	return "", false
}

// ParseSex accepts M/F in either case, or the words male/female.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return SexMale, nil
	case "f", "female":
		return SexFemale, nil
	}
	return "", fmt.Errorf("sex %q must be M or F", s)
}

// NaturalKey identifies a member when no surrogate id is available.
type NaturalKey struct {
	Name     string
	Born     string
	GenOrder int
}

// NewNaturalKey trims the name and replaces an empty birth date with the
// unknown sentinel so keys compare consistently.
func NewNaturalKey(name, born string, genOrder int) NaturalKey {
	born = strings.TrimSpace(born)
	if calendar.IsUnknown(born) {
		born = calendar.Unknown
	}
	return NaturalKey{Name: strings.TrimSpace(name), Born: born, GenOrder: genOrder}
}

func (k NaturalKey) String() string {
	return fmt.Sprintf("%s (born %s, generation %d)", k.Name, k.Born, k.GenOrder)
}

var placeholderNames = map[string]bool{
	"":        true,
	"?":       true,
	"-":       true,
	"none":    true,
	"n/a":     true,
	"unknown": true,
}

// IsPlaceholderName reports whether a name is a stand-in for "nobody".
func IsPlaceholderName(name string) bool {
	return placeholderNames[strings.ToLower(strings.TrimSpace(name))]
}

// IsDeceased reports whether died holds a real date. Empty or sentinel
// values mean alive or unknown.
func IsDeceased(died string) bool {
	return calendar.IsReal(strings.TrimSpace(died))
}
