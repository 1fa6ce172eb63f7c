package relation

import (
	"github.com/example/kin/internal/core/calendar"
)

// State is the lifecycle position of a relation. Ended is terminal.
type State string

const (
	StateOngoing State = "ongoing"
	StateEnded   State = "ended"
)

// Summary contains minimal relation info for guard evaluation.
type Summary struct {
	ID        int64
	MemberID  int64
	PartnerID int64
	Type      Type
	JoinDate  string
	EndDate   string
}

// State reports whether the relation is ongoing or ended.
func (s Summary) State() State {
	return StateOf(s.EndDate)
}

// StateOf derives the state from a stored end date.
func StateOf(endDate string) State {
	if calendar.IsOpen(endDate) {
		return StateOngoing
	}
	return StateEnded
}

// Involves reports whether id is on either side of the relation.
func (s Summary) Involves(id int64) bool {
	return s.MemberID == id || s.PartnerID == id
}

// Other returns the member on the opposite side from id.
func (s Summary) Other(id int64) int64 {
	if s.MemberID == id {
		return s.PartnerID
	}
	return s.MemberID
}

// From returns the label as seen from id's side of the relation.
func (s Summary) From(id int64) Type {
	if s.MemberID == id {
		return s.Type
	}
	return s.Type.Inverse()
}

// key is a direction-free identity for the (member, partner, type) triple.
// "X has Y as child" and "Y has X as parent" share a key, and spouse or
// sibling ties ignore direction entirely.
type key struct {
	a, b int64
	t    Type
}

func canonical(member, partner int64, t Type) key {
	switch t.Family() {
	case FamilyChild:
		return key{a: partner, b: member, t: t.Inverse()}
	case FamilySpouse, FamilySibling:
		if partner < member {
			member, partner = partner, member
		}
	}
	return key{a: member, b: partner, t: t}
}

// Same reports whether two triples describe the same tie.
func Same(aMember, aPartner int64, aType Type, bMember, bPartner int64, bType Type) bool {
	return canonical(aMember, aPartner, aType) == canonical(bMember, bPartner, bType)
}
