// Package identity models natural-key lookups of members. A lookup ends in
// exactly one of three outcomes and ambiguity is never collapsed by picking
// a candidate.
package identity

import (
	"fmt"
	"strings"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
)

// Outcome is the tri-state result of a resolution.
type Outcome string

const (
	Unique    Outcome = "unique"
	NotFound  Outcome = "not-found"
	Ambiguous Outcome = "ambiguous"
)

// Query is a conjunctive filter. Empty strings and a nil GenOrder leave the
// field unconstrained.
type Query struct {
	Name     string
	Born     string
	GenOrder *int
	Spouse   string
	Dad      string
	Mom      string
}

// Normalize trims every field and drops sentinel dates and placeholder
// names so they do not constrain the search.
func (q Query) Normalize() Query {
	q.Name = strings.TrimSpace(q.Name)
	q.Born = strings.TrimSpace(q.Born)
	if calendar.IsUnknown(q.Born) {
		q.Born = ""
	}
	q.Spouse = relativeName(q.Spouse)
	q.Dad = relativeName(q.Dad)
	q.Mom = relativeName(q.Mom)
	return q
}

func relativeName(name string) string {
	if member.IsPlaceholderName(name) {
		return ""
	}
	return strings.TrimSpace(name)
}

// Validate rejects queries without a usable name.
func (q Query) Validate() error {
	if member.IsPlaceholderName(q.Name) {
		return outcome.Validation("resolve needs a name, got %q", q.Name)
	}
	if q.Born != "" {
		if err := calendar.Check(q.Born); err != nil {
			return outcome.Validation("born: %v", err)
		}
	}
	return nil
}

func (q Query) String() string {
	parts := []string{fmt.Sprintf("name=%q", q.Name)}
	if q.Born != "" {
		parts = append(parts, "born="+q.Born)
	}
	if q.GenOrder != nil {
		parts = append(parts, fmt.Sprintf("generation=%d", *q.GenOrder))
	}
	if q.Spouse != "" {
		parts = append(parts, fmt.Sprintf("spouse=%q", q.Spouse))
	}
	if q.Dad != "" {
		parts = append(parts, fmt.Sprintf("dad=%q", q.Dad))
	}
	if q.Mom != "" {
		parts = append(parts, fmt.Sprintf("mom=%q", q.Mom))
	}
	return strings.Join(parts, " ")
}

// ParentQuery builds the lookup for a named parent of a child. When the
// child's generation is known the parent is constrained to the generation
// directly above it.
func ParentQuery(name string, childGen *int) Query {
	q := Query{Name: name}
	if childGen != nil {
		g := *childGen - 1
		q.GenOrder = &g
	}
	return q.Normalize()
}

// Classify maps candidate ids to an outcome.
func Classify(ids []int64) Outcome {
	switch len(ids) {
	case 0:
		return NotFound
	case 1:
		return Unique
	}
	return Ambiguous
}

// Err returns the typed outcome for a non-unique resolution, or nil.
func Err(q Query, ids []int64) error {
	switch Classify(ids) {
	case NotFound:
		return outcome.NotFound("no member matches %s", q)
	case Ambiguous:
		return outcome.Ambiguous(ids, "%d members match %s", len(ids), q)
	}
	return nil
}

// Gen is a convenience for building optional generation filters.
func Gen(g int) *int {
	return &g
}
