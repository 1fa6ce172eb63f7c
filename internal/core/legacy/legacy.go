// Package legacy normalizes mirror rows, the flat records exported by the
// pre-relational version of the family tree.
package legacy

import (
	"strconv"
	"strings"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
)

// RequiredFields is the fixed, case-sensitive field set every source must expose.
var RequiredFields = []string{
	"Name", "Aka", "Sex", "Born", "Died",
	"Dad", "Mom", "Relation",
	"Spouse", "Married",
	"Order", "Href", "Status",
}

// ParentLink is the legacy Relation code: how a row relates to its Dad/Mom.
type ParentLink int

const (
	LinkBiological ParentLink = 0
	LinkAdopted    ParentLink = 1
	LinkStep       ParentLink = 2
)

// Status is the legacy marital status code.
type Status int

const (
	StatusSingle   Status = 0
	StatusMarried  Status = 1
	StatusTogether Status = 2
)

// Row is a normalized mirror row. Number is the 1-based data row in the
// source, used to locate failures.
type Row struct {
	Number   int
	Name     string
	Aka      string
	Sex      *member.LegacySex
	Born     string
	Died     string
	Dad      string
	Mom      string
	Relation ParentLink
	Spouse   string
	Married  string
	Order    int
	Href     string
	Status   Status
}

// MissingFields returns the required fields absent from header, in
// declaration order.
func MissingFields(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, f := range RequiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// ValidateHeader fails the whole import when any required field is missing.
func ValidateHeader(header []string) error {
	if missing := MissingFields(header); len(missing) > 0 {
		return outcome.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NormalizeRow applies the default-value policy to one raw row.
// Dates that are zero, empty or absent become calendar.Unknown; integer
// codes default to 0 when absent or unparsable; strings are trimmed.
// A row without a name or with a date that is neither a sentinel nor a
// calendar date is rejected.
func NormalizeRow(number int, raw map[string]string) (Row, error) {
	r := Row{
		Number:   number,
		Name:     strings.TrimSpace(raw["Name"]),
		Aka:      strings.TrimSpace(raw["Aka"]),
		Born:     calendar.CoerceLegacy(raw["Born"]),
		Died:     calendar.CoerceLegacy(raw["Died"]),
		Dad:      strings.TrimSpace(raw["Dad"]),
		Mom:      strings.TrimSpace(raw["Mom"]),
		Relation: ParentLink(intOrZero(raw["Relation"])),
		Spouse:   strings.TrimSpace(raw["Spouse"]),
		Married:  calendar.CoerceLegacy(raw["Married"]),
		Order:    intOrZero(raw["Order"]),
		Href:     strings.TrimSpace(raw["Href"]),
		Status:   Status(intOrZero(raw["Status"])),
	}

	if code, err := strconv.Atoi(strings.TrimSpace(raw["Sex"])); err == nil {
		sex := member.LegacySex(code)
		r.Sex = &sex
	}

	if r.Name == "" {
		return r, outcome.Validation("row %d: Name is empty", number)
	}
	for field, v := range map[string]string{"Born": r.Born, "Died": r.Died, "Married": r.Married} {
		if err := calendar.CheckOrUnknown(v); err != nil {
			return r, outcome.Validation("row %d: %s: %v", number, field, err)
		}
	}
	return r, nil
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Values returns the storable fields keyed by mirror column. Fields that
// normalize to an empty string are left out so storage defaults apply.
func (r Row) Values() map[string]any {
	v := map[string]any{
		"row_number": r.Number,
		"born":       r.Born,
		"died":       r.Died,
		"relation":   int(r.Relation),
		"married":    r.Married,
		"gen_order":  r.Order,
		"status":     int(r.Status),
	}
	for col, s := range map[string]string{
		"name":   r.Name,
		"aka":    r.Aka,
		"dad":    r.Dad,
		"mom":    r.Mom,
		"spouse": r.Spouse,
		"href":   r.Href,
	} {
		if s != "" {
			v[col] = s
		}
	}
	if r.Sex != nil {
		v["sex"] = int(*r.Sex)
	}
	return v
}

// Key is the natural key the row's member is stored under.
func (r Row) Key() member.NaturalKey {
	return member.NewNaturalKey(r.Name, r.Born, r.Order)
}

// HasParents reports whether the row names a real dad or mom.
func (r Row) HasParents() bool {
	return !member.IsPlaceholderName(r.Dad) || !member.IsPlaceholderName(r.Mom)
}

// HasPartner reports whether the row records a living-together or married
// partner by name.
func (r Row) HasPartner() bool {
	return (r.Status == StatusMarried || r.Status == StatusTogether) && !member.IsPlaceholderName(r.Spouse)
}
