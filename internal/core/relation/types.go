// Package relation contains the pure rules of the relation ledger: the type
// vocabulary, the ongoing/ended state machine and the guards each life event
// evaluates before writing.
//
// A relation row (member_id=X, partner_id=Y, relation=T) reads "X has Y as T".
package relation

import (
	"fmt"
	"strings"
)

// Type is a relation label as stored in the ledger.
type Type string

const (
	Child               Type = "child"
	ChildAdoptedWithin  Type = "child adopted within the family"
	ChildAdoptedOther   Type = "child adopted from another family"
	ChildStep           Type = "child step"
	Parent              Type = "parent"
	ParentAdoptedWithin Type = "parent adopted within the family"
	ParentAdoptedOther  Type = "parent adopted from another family"
	ParentStep          Type = "parent step"
	Sibling             Type = "sibling"
	Spouse              Type = "spouse"
	SpouseCivilUnion    Type = "spouse civil union"
	SpouseDivorced      Type = "spouse divorced"
	SpouseDomestic      Type = "spouse domestic partnership"
	SpouseSeparated     Type = "spouse separated"
	Other               Type = "other"
)

// Family groups types by the shape of the tie.
type Family string

const (
	FamilyParent  Family = "parent"
	FamilyChild   Family = "child"
	FamilySpouse  Family = "spouse"
	FamilySibling Family = "sibling"
	FamilyOther   Family = "other"
)

// shortCodes are the abbreviated keys used by the legacy UI.
var shortCodes = map[string]Type{
	"child ai":  ChildAdoptedWithin,
	"child ao":  ChildAdoptedOther,
	"parent ai": ParentAdoptedWithin,
	"parent ao": ParentAdoptedOther,
	"spouse cu": SpouseCivilUnion,
	"spouse dp": SpouseDomestic,
}

var inverses = map[Type]Type{
	Child:               Parent,
	ChildAdoptedWithin:  ParentAdoptedWithin,
	ChildAdoptedOther:   ParentAdoptedOther,
	ChildStep:           ParentStep,
	Parent:              Child,
	ParentAdoptedWithin: ChildAdoptedWithin,
	ParentAdoptedOther:  ChildAdoptedOther,
	ParentStep:          ChildStep,
	Sibling:             Sibling,
	Spouse:              Spouse,
	SpouseCivilUnion:    SpouseCivilUnion,
	SpouseDivorced:      SpouseDivorced,
	SpouseDomestic:      SpouseDomestic,
	SpouseSeparated:     SpouseSeparated,
	Other:               Other,
}

// AllTypes lists the vocabulary in display order.
func AllTypes() []Type {
	return []Type{
		Child, ChildAdoptedWithin, ChildAdoptedOther, ChildStep,
		Parent, ParentAdoptedWithin, ParentAdoptedOther, ParentStep,
		Sibling,
		Spouse, SpouseCivilUnion, SpouseDivorced, SpouseDomestic, SpouseSeparated,
		Other,
	}
}

// ParseType accepts a full label or a legacy short code.
func ParseType(s string) (Type, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if t, ok := shortCodes[v]; ok {
		return t, nil
	}
	t := Type(v)
	if !t.Valid() {
		return "", fmt.Errorf("unknown relation type %q", s)
	}
	return t, nil
}

// Valid reports whether t is part of the vocabulary.
func (t Type) Valid() bool {
	_, ok := inverses[t]
	return ok
}

// Inverse returns the label seen from the partner's side.
func (t Type) Inverse() Type {
	if inv, ok := inverses[t]; ok {
		return inv
	}
	return Other
}

// Family returns the group t belongs to.
func (t Type) Family() Family {
	switch t {
	case Parent, ParentAdoptedWithin, ParentAdoptedOther, ParentStep:
		return FamilyParent
	case Child, ChildAdoptedWithin, ChildAdoptedOther, ChildStep:
		return FamilyChild
	case Spouse, SpouseCivilUnion, SpouseDivorced, SpouseDomestic, SpouseSeparated:
		return FamilySpouse
	case Sibling:
		return FamilySibling
	}
	return FamilyOther
}

// IsPartnership reports whether t is a spouse kind that can be ongoing.
func (t Type) IsPartnership() bool {
	return t == Spouse || t == SpouseCivilUnion || t == SpouseDomestic
}

// IsPartnershipEnd reports whether t is a spouse kind that records an end.
func (t Type) IsPartnershipEnd() bool {
	return t == SpouseDivorced || t == SpouseSeparated
}

// AdoptionKind distinguishes adoption within the family from adoption
// out of another family.
type AdoptionKind string

const (
	AdoptionWithin AdoptionKind = "within"
	AdoptionOther  AdoptionKind = "other"
)

// ParentType returns the "child has partner as ..." label for the adoption.
func (k AdoptionKind) ParentType() (Type, error) {
	switch k {
	case AdoptionWithin:
		return ParentAdoptedWithin, nil
	case AdoptionOther:
		return ParentAdoptedOther, nil
	}
	return "", fmt.Errorf("adoption kind %q must be %q or %q", k, AdoptionWithin, AdoptionOther)
}
