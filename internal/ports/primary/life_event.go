package primary

import "context"

// LifeEventService defines the primary port for life events. Each call is
// one transaction: all of its writes land or none do.
type LifeEventService interface {
	Birth(ctx context.Context, req BirthRequest) (*BirthResponse, error)
	Death(ctx context.Context, req DeathRequest) (*DeathResponse, error)
	Marry(ctx context.Context, req MarriageRequest) (*MarriageResponse, error)
	Divorce(ctx context.Context, req DivorceRequest) (*DivorceResponse, error)
	Adopt(ctx context.Context, req AdoptionRequest) (*AdoptionResponse, error)
	AddStepParent(ctx context.Context, req StepRequest) (*StepResponse, error)
}

// NewMember describes a member created as part of an event.
type NewMember struct {
	Name     string `validate:"required"`
	Born     string `validate:"omitempty,kindate"`
	GenOrder *int   `validate:"omitempty,gte=0"`
	Sex      string `validate:"omitempty,oneof=M F m f"`
	Alias    string
	Email    string `validate:"omitempty,email"`
	URL      string `validate:"omitempty,url"`
	FamilyID int64  `validate:"gte=0"`
}

// BirthRequest records a newborn. Zero parent IDs mean unknown.
type BirthRequest struct {
	Child NewMember
	DadID int64 `validate:"gte=0"`
	MomID int64 `validate:"gte=0"`
}

// BirthResponse contains the result of a birth.
type BirthResponse struct {
	MemberID    int64
	GenOrder    int
	RelationIDs []int64
	NeedsReview bool // no parent was given
}

// DeathRequest records a death.
type DeathRequest struct {
	MemberID int64  `validate:"required,gt=0"`
	Died     string `validate:"required,kindate"`
}

// SkippedRelation is a relation a death left ongoing, with the reason.
type SkippedRelation struct {
	RelationID int64
	Reason     string
}

// DeathResponse contains the result of a death.
type DeathResponse struct {
	MemberID           int64
	EndedRelationIDs   []int64
	Skipped            []SkippedRelation
	AccountDeactivated bool
}

// MarriageRequest registers a partnership. The partner is either an
// existing member (PartnerID) or resolved-or-created from Partner.
type MarriageRequest struct {
	MemberID  int64      `validate:"required,gt=0"`
	PartnerID int64      `validate:"gte=0"`
	Partner   *NewMember `validate:"required_without=PartnerID,excluded_with=PartnerID"`
	Type      string     `validate:"omitempty,oneof=spouse 'spouse civil union' 'spouse domestic partnership' 'spouse cu' 'spouse dp'"`
	Married   string     `validate:"required,kindate|eq=0000-01-01"`
}

// MarriageResponse contains the result of a marriage.
type MarriageResponse struct {
	RelationID     int64
	PartnerID      int64
	PartnerCreated bool
}

// DivorceRequest ends the ongoing partnership between two members.
type DivorceRequest struct {
	MemberID  int64  `validate:"required,gt=0"`
	PartnerID int64  `validate:"required,gt=0,nefield=MemberID"`
	Type      string `validate:"required,oneof='spouse divorced' 'spouse separated' divorced separated"`
	Ended     string `validate:"required,kindate"`
}

// DivorceResponse contains the result of a divorce or separation.
type DivorceResponse struct {
	RelationID int64
	Type       string
}

// AdoptionRequest records adoptive parents for an existing or new child.
type AdoptionRequest struct {
	ChildID   int64      `validate:"gte=0"`
	Child     *NewMember `validate:"required_without=ChildID,excluded_with=ChildID"`
	ParentIDs []int64    `validate:"required,min=1,max=2,dive,gt=0"`
	Kind      string     `validate:"required,oneof=within other"`
	Adopted   string     `validate:"required,kindate"`
}

// AdoptionResponse contains the result of an adoption.
type AdoptionResponse struct {
	ChildID      int64
	ChildCreated bool
	RelationIDs  []int64
}

// StepRequest records a step-parent tie.
type StepRequest struct {
	ChildID  int64  `validate:"required,gt=0"`
	ParentID int64  `validate:"required,gt=0,nefield=ChildID"`
	Joined   string `validate:"required,kindate"`
}

// StepResponse contains the result of a step relation.
type StepResponse struct {
	RelationID int64
}
