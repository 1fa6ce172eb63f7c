// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces the CLI calls into.
package primary

import "context"

// MemberService defines the primary port for member records.
type MemberService interface {
	// AddMember creates a member with no relations. An existing natural key
	// is an integrity conflict.
	AddMember(ctx context.Context, req AddMemberRequest) (*Member, error)

	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, memberID int64) (*Member, error)

	// ListMembers lists members ordered by generation then birth date.
	ListMembers(ctx context.Context, filters MemberFilters) ([]*Member, error)

	// RelationsOf lists every relation involving the member, labelled from
	// the member's side.
	RelationsOf(ctx context.Context, memberID int64) ([]*RelationView, error)
}

// AddMemberRequest contains parameters for adding a member.
type AddMemberRequest struct {
	Name     string `validate:"required"`
	Born     string `validate:"omitempty,kindate"`
	GenOrder int    `validate:"gte=0"`
	Sex      string `validate:"omitempty,oneof=M F m f"`
	Alias    string
	Email    string `validate:"omitempty,email"`
	URL      string `validate:"omitempty,url"`
	FamilyID int64  `validate:"gte=0"`
}

// Member represents a member at the port boundary.
type Member struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Alias    string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Born     string `json:"born" yaml:"born"`
	Died     string `json:"died,omitempty" yaml:"died,omitempty"`
	Sex      string `json:"sex,omitempty" yaml:"sex,omitempty"`
	GenOrder int    `json:"gen_order" yaml:"gen_order"`
	FamilyID int64  `json:"family_id,omitempty" yaml:"family_id,omitempty"`
	DadID    int64  `json:"dad_id,omitempty" yaml:"dad_id,omitempty"`
	MomID    int64  `json:"mom_id,omitempty" yaml:"mom_id,omitempty"`
	Deceased bool   `json:"deceased" yaml:"deceased"`
}

// MemberFilters contains filter options for listing members.
type MemberFilters struct {
	GenBegin *int
	GenEnd   *int
	FamilyID int64
	Limit    int
}

// RelationView is a relation seen from one member's side.
type RelationView struct {
	RelationID int64
	MemberID   int64
	Other      *Member
	Label      string // relation type from MemberID's point of view
	Stored     string // relation type as stored
	JoinDate   string
	EndDate    string
	Ongoing    bool
}
