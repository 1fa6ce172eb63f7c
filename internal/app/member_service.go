package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// MemberServiceImpl implements the MemberService interface.
type MemberServiceImpl struct {
	store  secondary.Transactor
	logger *slog.Logger
}

// NewMemberService creates a new MemberService with injected dependencies.
func NewMemberService(store secondary.Transactor, logger *slog.Logger) *MemberServiceImpl {
	return &MemberServiceImpl{
		store:  store,
		logger: logger,
	}
}

// AddMember creates a member with no relations.
func (s *MemberServiceImpl) AddMember(ctx context.Context, req primary.AddMemberRequest) (*primary.Member, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var created *secondary.MemberRecord
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		id, err := createMember(ctx, tx, primary.NewMember{
			Name:     req.Name,
			Born:     req.Born,
			Sex:      req.Sex,
			Alias:    req.Alias,
			Email:    req.Email,
			URL:      req.URL,
			FamilyID: req.FamilyID,
		}, req.GenOrder)
		if err != nil {
			return err
		}

		if err := tx.Log().LogEvent(ctx, "add", "member", strconv.FormatInt(id, 10), req.Name); err != nil {
			return err
		}

		created, err = tx.Members().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member added", "member_id", created.ID, "name", created.Name, "gen_order", created.GenOrder)
	return recordToMember(created), nil
}

// GetMember retrieves a member by ID.
func (s *MemberServiceImpl) GetMember(ctx context.Context, memberID int64) (*primary.Member, error) {
	record, err := s.store.Members().GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return recordToMember(record), nil
}

// ListMembers lists members ordered by generation then birth date.
func (s *MemberServiceImpl) ListMembers(ctx context.Context, filters primary.MemberFilters) ([]*primary.Member, error) {
	if filters.GenBegin != nil && filters.GenEnd != nil && *filters.GenBegin > *filters.GenEnd {
		return nil, outcome.Validation("generation range %d..%d is empty", *filters.GenBegin, *filters.GenEnd)
	}

	records, err := s.store.Members().List(ctx, secondary.MemberFilters{
		GenBegin: filters.GenBegin,
		GenEnd:   filters.GenEnd,
		FamilyID: filters.FamilyID,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return recordsToMembers(records), nil
}

// RelationsOf lists every relation involving the member, labelled from the
// member's side.
func (s *MemberServiceImpl) RelationsOf(ctx context.Context, memberID int64) ([]*primary.RelationView, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	records, err := s.store.Relations().ListInvolving(ctx, memberID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]int64, 0, len(records))
	for _, r := range records {
		otherIDs = append(otherIDs, toSummary(r).Other(memberID))
	}
	others, err := s.store.Members().GetMany(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*secondary.MemberRecord, len(others))
	for _, o := range others {
		byID[o.ID] = o
	}

	views := make([]*primary.RelationView, len(records))
	for i, r := range records {
		sum := toSummary(r)
		view := &primary.RelationView{
			RelationID: r.ID,
			MemberID:   memberID,
			Label:      string(sum.From(memberID)),
			Stored:     r.Relation,
			JoinDate:   r.JoinDate,
			EndDate:    r.EndDate,
			Ongoing:    sum.State() == relation.StateOngoing,
		}
		if other, ok := byID[sum.Other(memberID)]; ok {
			view.Other = recordToMember(other)
		}
		views[i] = view
	}
	return views, nil
}

// createMember writes a new member after the uniqueness guard, checked
// inside the caller's transaction.
func createMember(ctx context.Context, tx secondary.Store, nm primary.NewMember, genOrder int) (int64, error) {
	key := member.NewNaturalKey(nm.Name, nm.Born, genOrder)

	existing, err := keyIDs(ctx, tx.Members(), key)
	if err != nil {
		return 0, err
	}
	if err := member.CanCreateMember(member.CreateMemberContext{Key: key, ExistingIDs: existing}).Error(); err != nil {
		return 0, err
	}

	var sex string
	if nm.Sex != "" {
		parsed, err := member.ParseSex(nm.Sex)
		if err != nil {
			return 0, outcome.Validation("%v", err)
		}
		sex = string(parsed)
	}

	return tx.Members().Create(ctx, &secondary.MemberRecord{
		Name:     key.Name,
		Born:     key.Born,
		GenOrder: key.GenOrder,
		Sex:      sex,
		Alias:    nm.Alias,
		Email:    nm.Email,
		URL:      nm.URL,
		FamilyID: nm.FamilyID,
	})
}

// Ensure MemberServiceImpl implements the interface.
var _ primary.MemberService = (*MemberServiceImpl)(nil)
