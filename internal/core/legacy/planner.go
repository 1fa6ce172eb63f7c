package legacy

import (
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/relation"
)

// SexUpdate is the outcome of mapping a row's legacy sex code.
type SexUpdate struct {
	Sex    member.Sex
	Mapped bool
	Reason string
}

// PlanSex maps the row's sex code. Unknown or absent codes are left unmapped
// with a reason and never guessed.
func PlanSex(r Row) SexUpdate {
	if r.Sex == nil {
		return SexUpdate{Reason: "sex code missing"}
	}
	sex, ok := member.MapLegacySex(*r.Sex)
	if !ok {
		return SexUpdate{Reason: "unmapped sex code"}
	}
	return SexUpdate{Sex: sex, Mapped: true}
}

// PartnerType returns the relation a row's Status implies for its Spouse.
func PartnerType(r Row) (relation.Type, bool) {
	switch r.Status {
	case StatusMarried:
		return relation.Spouse, true
	case StatusTogether:
		return relation.SpouseDomestic, true
	}
	return "", false
}

// ParentType returns the "child has partner as ..." label for the row's
// Relation code. Only biological rows are linked by the import.
func ParentType(r Row) (relation.Type, bool) {
	if r.Relation == LinkBiological {
		return relation.Parent, true
	}
	return "", false
}
