package app

import (
	"context"

	"github.com/example/kin/internal/core/identity"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// IdentityServiceImpl implements the IdentityService interface.
type IdentityServiceImpl struct {
	memberRepo secondary.MemberRepository
}

// NewIdentityService creates a new IdentityService with injected dependencies.
func NewIdentityService(memberRepo secondary.MemberRepository) *IdentityServiceImpl {
	return &IdentityServiceImpl{
		memberRepo: memberRepo,
	}
}

// Resolve returns every member matching the query, classified as unique,
// not-found or ambiguous. Only an unusable query or a storage failure is an
// error.
func (s *IdentityServiceImpl) Resolve(ctx context.Context, req primary.ResolveRequest) (*primary.Resolution, error) {
	q := identity.Query{
		Name:     req.Name,
		Born:     req.Born,
		GenOrder: req.GenOrder,
		Spouse:   req.Spouse,
		Dad:      req.Dad,
		Mom:      req.Mom,
	}

	ids, records, err := searchIDs(ctx, s.memberRepo, q)
	if err != nil {
		return nil, err
	}

	res := &primary.Resolution{Outcome: string(identity.Classify(ids))}
	switch identity.Classify(ids) {
	case identity.Unique:
		res.Member = recordToMember(records[0])
	case identity.Ambiguous:
		res.Candidates = recordsToMembers(records)
	}
	return res, nil
}

// Ensure IdentityServiceImpl implements the interface.
var _ primary.IdentityService = (*IdentityServiceImpl)(nil)
