package app

import (
	"context"

	"github.com/example/kin/internal/core/identity"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

func recordToMember(r *secondary.MemberRecord) *primary.Member {
	return &primary.Member{
		ID:       r.ID,
		Name:     r.Name,
		Alias:    r.Alias,
		Email:    r.Email,
		URL:      r.URL,
		Born:     r.Born,
		Died:     r.Died,
		Sex:      r.Sex,
		GenOrder: r.GenOrder,
		FamilyID: r.FamilyID,
		DadID:    r.DadID,
		MomID:    r.MomID,
		Deceased: member.IsDeceased(r.Died),
	}
}

func recordsToMembers(records []*secondary.MemberRecord) []*primary.Member {
	members := make([]*primary.Member, len(records))
	for i, r := range records {
		members[i] = recordToMember(r)
	}
	return members
}

func toSummary(r *secondary.RelationRecord) relation.Summary {
	return relation.Summary{
		ID:        r.ID,
		MemberID:  r.MemberID,
		PartnerID: r.PartnerID,
		Type:      relation.Type(r.Relation),
		JoinDate:  r.JoinDate,
		EndDate:   r.EndDate,
	}
}

func toSummaries(records []*secondary.RelationRecord) []relation.Summary {
	out := make([]relation.Summary, len(records))
	for i, r := range records {
		out[i] = toSummary(r)
	}
	return out
}

// searchIDs runs a normalized resolver query and returns every match.
func searchIDs(ctx context.Context, members secondary.MemberRepository, q identity.Query) ([]int64, []*secondary.MemberRecord, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, nil, err
	}

	records, err := members.Search(ctx, secondary.MemberQuery{
		Name:     q.Name,
		Born:     q.Born,
		GenOrder: q.GenOrder,
		Spouse:   q.Spouse,
		Dad:      q.Dad,
		Mom:      q.Mom,
	})
	if err != nil {
		return nil, nil, err
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, records, nil
}

// resolveOne returns the single member matching q, or the not-found or
// ambiguous outcome.
func resolveOne(ctx context.Context, members secondary.MemberRepository, q identity.Query) (int64, error) {
	ids, _, err := searchIDs(ctx, members, q)
	if err != nil {
		return 0, err
	}
	if err := identity.Err(q.Normalize(), ids); err != nil {
		return 0, err
	}
	return ids[0], nil
}

// keyIDs returns the members stored under exactly this natural key.
func keyIDs(ctx context.Context, members secondary.MemberRepository, key member.NaturalKey) ([]int64, error) {
	gen := key.GenOrder
	records, err := members.Search(ctx, secondary.MemberQuery{Name: key.Name, Born: key.Born, GenOrder: &gen})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}
